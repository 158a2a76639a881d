// Package docsrv orchestrates the document pipeline: decode the upload,
// extract text, render the overlay, and answer questions against the
// cached extraction.
package docsrv

import (
	"context"
	"net/http"
	"time"

	"github.com/iQuantC/docsight/pkg/document"
	"github.com/iQuantC/docsight/pkg/document/docstore"
	"github.com/iQuantC/docsight/pkg/document/overlay"
	"github.com/iQuantC/docsight/pkg/errx"
	"github.com/iQuantC/docsight/pkg/logx"
)

var (
	errorRegistry = errx.NewRegistry("DOCUMENT")

	ErrMissingFile = errorRegistry.Register(
		"MISSING_FILE",
		errx.TypeValidation,
		http.StatusBadRequest,
		"No document file provided; send one image in the 'file' field",
	)

	ErrEmptyQuestion = errorRegistry.Register(
		"EMPTY_QUESTION",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Question must not be empty",
	)
)

// Extractor produces the document text for raw image bytes.
type Extractor interface {
	Extract(ctx context.Context, imageBytes []byte) (*document.Text, error)
}

// Answerer answers a question grounded on extracted text.
type Answerer interface {
	Answer(ctx context.Context, contextText, question string) (string, error)
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithTimeout bounds each outbound service call.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.timeout = d }
}

// WithOverlayOptions sets the rectangle rendering options.
func WithOverlayOptions(opts ...overlay.Option) ServiceOption {
	return func(s *Service) { s.overlayOpts = opts }
}

// Service sequences the pipeline. Extraction runs once per upload;
// answering reuses the stored extraction any number of times.
type Service struct {
	extractor   Extractor
	answerer    Answerer
	store       *docstore.Store
	timeout     time.Duration
	overlayOpts []overlay.Option
}

// NewService wires the pipeline components together.
func NewService(extractor Extractor, answerer Answerer, store *docstore.Store, opts ...ServiceOption) *Service {
	s := &Service{
		extractor: extractor,
		answerer:  answerer,
		store:     store,
		timeout:   60 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Process runs upload -> extract -> overlay and stores the result. If
// extraction fails nothing is stored and no overlay is rendered.
func (s *Service) Process(ctx context.Context, data []byte) (*docstore.Session, error) {
	if len(data) == 0 {
		return nil, errorRegistry.New(ErrMissingFile)
	}

	img, format, err := overlay.Decode(data)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	text, err := s.extractor.Extract(callCtx, data)
	if err != nil {
		return nil, err
	}

	boxed := overlay.Render(img, text.Lines, s.overlayOpts...)
	boxedPNG, err := overlay.EncodePNG(boxed)
	if err != nil {
		return nil, err
	}

	session := s.store.Put(docstore.Session{
		Format:     format,
		Original:   data,
		Text:       *text,
		OverlayPNG: boxedPNG,
	})

	logx.WithFields(logx.Fields{
		"document": session.ID,
		"format":   format,
		"lines":    len(text.Lines),
	}).Info("Document processed")

	return session, nil
}

// Session returns a processed upload by ID.
func (s *Service) Session(id string) (*docstore.Session, error) {
	return s.store.Get(id)
}

// Ask answers one question against the cached extraction of the given
// upload. The extracted text is passed through verbatim, even when it
// is empty.
func (s *Service) Ask(ctx context.Context, id, question string) (string, error) {
	if question == "" {
		return "", errorRegistry.New(ErrEmptyQuestion)
	}

	session, err := s.store.Get(id)
	if err != nil {
		return "", err
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	return s.answerer.Answer(callCtx, session.Text.Flatten(), question)
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
