package document_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/iQuantC/docsight/pkg/document"
)

func TestFlatten_JoinsWithSingleNewline(t *testing.T) {
	text := document.Text{Lines: []document.Line{
		{Text: "Invoice #42"},
		{Text: "Total: $100"},
		{Text: "Due: tomorrow"},
	}}

	got := text.Flatten()
	want := "Invoice #42\nTotal: $100\nDue: tomorrow"
	if got != want {
		t.Fatalf("Flatten() = %q, want %q", got, want)
	}
}

func TestFlatten_RoundTripsThroughSplit(t *testing.T) {
	lines := []document.Line{
		{Text: "alpha"},
		{Text: "beta"},
		{Text: ""},
		{Text: "gamma"},
	}
	text := document.Text{Lines: lines}

	split := strings.Split(text.Flatten(), "\n")

	want := make([]string, len(lines))
	for i, l := range lines {
		want[i] = l.Text
	}
	if !reflect.DeepEqual(split, want) {
		t.Fatalf("split = %v, want %v", split, want)
	}
}

func TestFlatten_Empty(t *testing.T) {
	var text document.Text
	if got := text.Flatten(); got != "" {
		t.Fatalf("Flatten() of empty text = %q, want empty", got)
	}
	if !text.IsEmpty() {
		t.Fatal("expected IsEmpty")
	}
}

func TestFlatten_SingleLineHasNoSeparator(t *testing.T) {
	text := document.Text{Lines: []document.Line{{Text: "only"}}}
	if got := text.Flatten(); got != "only" {
		t.Fatalf("Flatten() = %q, want %q", got, "only")
	}
}
