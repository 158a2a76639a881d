package docsrv_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/iQuantC/docsight/pkg/document"
	"github.com/iQuantC/docsight/pkg/document/docsrv"
	"github.com/iQuantC/docsight/pkg/document/docstore"
	"github.com/iQuantC/docsight/pkg/errx"
)

type fakeExtractor struct {
	text  *document.Text
	err   error
	calls int
	got   [][]byte
}

func (f *fakeExtractor) Extract(ctx context.Context, imageBytes []byte) (*document.Text, error) {
	f.calls++
	f.got = append(f.got, imageBytes)
	if f.err != nil {
		return nil, f.err
	}
	return f.text, nil
}

type fakeAnswerer struct {
	answer   string
	err      error
	calls    int
	contexts []string
}

func (f *fakeAnswerer) Answer(ctx context.Context, contextText, question string) (string, error) {
	f.calls++
	f.contexts = append(f.contexts, contextText)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func newService(extractor *fakeExtractor, answerer *fakeAnswerer) (*docsrv.Service, *docstore.Store) {
	store := docstore.NewStore(time.Minute)
	svc := docsrv.NewService(extractor, answerer, store)
	return svc, store
}

func TestProcess_StoresExtractionAndOverlay(t *testing.T) {
	extractor := &fakeExtractor{text: &document.Text{Lines: []document.Line{
		{Text: "Invoice #42", Box: document.Box{Left: 0, Top: 0, Width: 0.5, Height: 0.1}},
	}}}
	svc, _ := newService(extractor, &fakeAnswerer{})

	payload := testPNG(t, 40, 20)
	session, err := svc.Process(context.Background(), payload)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if session.ID == "" || session.Format != "png" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.Text.Flatten() != "Invoice #42" {
		t.Fatalf("stored text = %q", session.Text.Flatten())
	}
	if len(extractor.got) != 1 || !bytes.Equal(extractor.got[0], payload) {
		t.Fatal("extractor did not receive the raw upload bytes")
	}

	overlayImg, err := png.Decode(bytes.NewReader(session.OverlayPNG))
	if err != nil {
		t.Fatalf("overlay is not valid PNG: %v", err)
	}
	if overlayImg.Bounds().Dx() != 40 || overlayImg.Bounds().Dy() != 20 {
		t.Fatalf("overlay dimensions %v differ from upload", overlayImg.Bounds())
	}
}

func TestProcess_ExtractionFailureStoresNothing(t *testing.T) {
	extractor := &fakeExtractor{err: errx.External("boom")}
	svc, store := newService(extractor, &fakeAnswerer{})

	_, err := svc.Process(context.Background(), testPNG(t, 10, 10))
	if err == nil {
		t.Fatal("expected error")
	}
	if store.Len() != 0 {
		t.Fatalf("no session should be stored after a failed extraction, got %d", store.Len())
	}
}

func TestProcess_RejectsUndecodableUpload(t *testing.T) {
	extractor := &fakeExtractor{text: &document.Text{}}
	svc, _ := newService(extractor, &fakeAnswerer{})

	_, err := svc.Process(context.Background(), []byte("not an image"))
	if err == nil {
		t.Fatal("expected error")
	}

	var xerr *errx.Error
	if !errx.As(err, &xerr) || xerr.Type != errx.TypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if extractor.calls != 0 {
		t.Fatal("detection service must not be called for an undecodable upload")
	}
}

func TestProcess_EmptyUpload(t *testing.T) {
	svc, _ := newService(&fakeExtractor{}, &fakeAnswerer{})

	_, err := svc.Process(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var xerr *errx.Error
	if !errx.As(err, &xerr) || xerr.Code != docsrv.ErrMissingFile.Code {
		t.Fatalf("expected %s, got %v", docsrv.ErrMissingFile.Code, err)
	}
}

func TestAsk_ReusesCachedExtraction(t *testing.T) {
	extractor := &fakeExtractor{text: &document.Text{Lines: []document.Line{
		{Text: "first"}, {Text: "second"},
	}}}
	answerer := &fakeAnswerer{answer: "the answer"}
	svc, _ := newService(extractor, answerer)

	session, err := svc.Process(context.Background(), testPNG(t, 10, 10))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	for i := 0; i < 3; i++ {
		answer, err := svc.Ask(context.Background(), session.ID, "what?")
		if err != nil {
			t.Fatalf("Ask %d: %v", i, err)
		}
		if answer != "the answer" {
			t.Fatalf("answer = %q", answer)
		}
	}

	if extractor.calls != 1 {
		t.Fatalf("extraction ran %d times, want once per upload", extractor.calls)
	}
	if answerer.calls != 3 {
		t.Fatalf("answerer ran %d times, want 3", answerer.calls)
	}
	for _, got := range answerer.contexts {
		if got != "first\nsecond" {
			t.Fatalf("answer context = %q, want flattened text", got)
		}
	}
}

func TestAsk_EmptyQuestionNeverReachesModel(t *testing.T) {
	answerer := &fakeAnswerer{answer: "x"}
	svc, _ := newService(&fakeExtractor{text: &document.Text{}}, answerer)

	session, err := svc.Process(context.Background(), testPNG(t, 10, 10))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if _, err := svc.Ask(context.Background(), session.ID, ""); err == nil {
		t.Fatal("expected error")
	}
	if answerer.calls != 0 {
		t.Fatal("answerer must not be called for an empty question")
	}
}

func TestAsk_UnknownDocument(t *testing.T) {
	svc, _ := newService(&fakeExtractor{}, &fakeAnswerer{})

	_, err := svc.Ask(context.Background(), "missing", "what?")
	if err == nil {
		t.Fatal("expected error")
	}

	var xerr *errx.Error
	if !errx.As(err, &xerr) || xerr.Type != errx.TypeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAsk_AnswererErrorPassesThroughUnchanged(t *testing.T) {
	modelErr := errx.External("model unavailable")
	answerer := &fakeAnswerer{err: modelErr}
	svc, _ := newService(&fakeExtractor{text: &document.Text{}}, answerer)

	session, err := svc.Process(context.Background(), testPNG(t, 10, 10))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	_, err = svc.Ask(context.Background(), session.ID, "what?")
	if !errors.Is(err, modelErr) {
		t.Fatalf("answerer error should surface as-is, got %v", err)
	}
}

func TestAsk_EmptyContextIsStillSent(t *testing.T) {
	// An upload with zero detected lines still results in a model call
	// with an empty context string.
	answerer := &fakeAnswerer{answer: "guess"}
	svc, _ := newService(&fakeExtractor{text: &document.Text{}}, answerer)

	session, err := svc.Process(context.Background(), testPNG(t, 10, 10))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if _, err := svc.Ask(context.Background(), session.ID, "What is this?"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answerer.calls != 1 || answerer.contexts[0] != "" {
		t.Fatalf("expected one call with empty context, got calls=%d contexts=%v", answerer.calls, answerer.contexts)
	}
}
