package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/iQuantC/docsight/pkg/document/extract"
	"github.com/iQuantC/docsight/pkg/errx"
)

type fakeDetectAPI struct {
	output  *textract.DetectDocumentTextOutput
	err     error
	gotDocs [][]byte
}

func (f *fakeDetectAPI) DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error) {
	f.gotDocs = append(f.gotDocs, params.Document.Bytes)
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func lineBlock(text string, left, top, width, height float32) types.Block {
	return types.Block{
		BlockType: types.BlockTypeLine,
		Text:      aws.String(text),
		Geometry: &types.Geometry{
			BoundingBox: &types.BoundingBox{Left: left, Top: top, Width: width, Height: height},
		},
	}
}

func wordBlock(text string) types.Block {
	return types.Block{
		BlockType: types.BlockTypeWord,
		Text:      aws.String(text),
		Geometry: &types.Geometry{
			BoundingBox: &types.BoundingBox{},
		},
	}
}

func TestExtract_KeepsOnlyLinesInServiceOrder(t *testing.T) {
	fake := &fakeDetectAPI{
		output: &textract.DetectDocumentTextOutput{
			Blocks: []types.Block{
				{BlockType: types.BlockTypePage},
				lineBlock("first", 0, 0, 0.5, 0.1),
				wordBlock("first"),
				lineBlock("second", 0, 0.2, 0.5, 0.1),
				lineBlock("third", 0, 0.4, 0.5, 0.1),
				wordBlock("third"),
			},
		},
	}
	e := extract.NewExtractorWithClient(fake)

	text, err := e.Extract(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(text.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(text.Lines))
	}
	for i, want := range []string{"first", "second", "third"} {
		if text.Lines[i].Text != want {
			t.Fatalf("line %d = %q, want %q", i, text.Lines[i].Text, want)
		}
	}
}

func TestExtract_MixedLineAndWordScenario(t *testing.T) {
	fake := &fakeDetectAPI{
		output: &textract.DetectDocumentTextOutput{
			Blocks: []types.Block{
				lineBlock("Invoice #42", 0, 0, 0.5, 0.1),
				wordBlock("Invoice"),
			},
		},
	}
	e := extract.NewExtractorWithClient(fake)

	text, err := e.Extract(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got := text.Flatten(); got != "Invoice #42" {
		t.Fatalf("Flatten() = %q, want %q", got, "Invoice #42")
	}
	if len(text.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(text.Lines))
	}

	box := text.Lines[0].Box
	if box.Left != 0 || box.Top != 0 || box.Width != 0.5 {
		t.Fatalf("unexpected box: %+v", box)
	}
}

func TestExtract_PassesRawBytesThrough(t *testing.T) {
	fake := &fakeDetectAPI{output: &textract.DetectDocumentTextOutput{}}
	e := extract.NewExtractorWithClient(fake)

	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	if _, err := e.Extract(context.Background(), payload); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(fake.gotDocs) != 1 || string(fake.gotDocs[0]) != string(payload) {
		t.Fatalf("service did not receive the raw payload: %v", fake.gotDocs)
	}
}

func TestExtract_ServiceErrorSurfaces(t *testing.T) {
	fake := &fakeDetectAPI{err: errors.New("AccessDeniedException: not authorized")}
	e := extract.NewExtractorWithClient(fake)

	_, err := e.Extract(context.Background(), []byte("img"))
	if err == nil {
		t.Fatal("expected error")
	}

	var xerr *errx.Error
	if !errx.As(err, &xerr) {
		t.Fatalf("expected errx.Error, got %T", err)
	}
	if xerr.Code != extract.ErrAPIUnauthorized.Code {
		t.Fatalf("code = %s, want %s", xerr.Code, extract.ErrAPIUnauthorized.Code)
	}
	if !errors.Is(err, fake.err) {
		t.Fatal("original service error should be preserved in the chain")
	}
	if xerr.Details["cause"] != fake.err.Error() {
		t.Fatalf("details.cause = %v, want the upstream message %q", xerr.Details["cause"], fake.err.Error())
	}
}

func TestExtract_MalformedLineBlock(t *testing.T) {
	fake := &fakeDetectAPI{
		output: &textract.DetectDocumentTextOutput{
			Blocks: []types.Block{
				{BlockType: types.BlockTypeLine, Text: aws.String("no geometry")},
			},
		},
	}
	e := extract.NewExtractorWithClient(fake)

	_, err := e.Extract(context.Background(), []byte("img"))
	if err == nil {
		t.Fatal("expected malformed-response error")
	}

	var xerr *errx.Error
	if !errx.As(err, &xerr) || xerr.Code != extract.ErrMalformedResponse.Code {
		t.Fatalf("expected %s, got %v", extract.ErrMalformedResponse.Code, err)
	}
}

func TestExtract_NoBlocksYieldsEmptyText(t *testing.T) {
	fake := &fakeDetectAPI{output: &textract.DetectDocumentTextOutput{}}
	e := extract.NewExtractorWithClient(fake)

	text, err := e.Extract(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !text.IsEmpty() {
		t.Fatalf("expected empty text, got %d lines", len(text.Lines))
	}
}
