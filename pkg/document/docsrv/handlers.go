package docsrv

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2"

	"github.com/iQuantC/docsight/pkg/document"
	"github.com/iQuantC/docsight/pkg/document/docstore"
	"github.com/iQuantC/docsight/pkg/document/qa"
	"github.com/iQuantC/docsight/pkg/errx"
)

// S3API is the slice of the S3 client used for bucket ingestion.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Handlers exposes the pipeline over HTTP.
type Handlers struct {
	svc      *Service
	s3Client S3API
}

// NewHandlers creates the HTTP handlers. s3Client may be nil to disable
// the S3 ingestion route.
func NewHandlers(svc *Service, s3Client S3API) *Handlers {
	return &Handlers{svc: svc, s3Client: s3Client}
}

// RegisterRoutes mounts the document routes on the app.
func (h *Handlers) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1/documents")

	api.Post("/", h.upload)
	if h.s3Client != nil {
		api.Post("/s3", h.uploadFromS3)
	}
	api.Get("/:id", h.get)
	api.Get("/:id/image", h.image)
	api.Get("/:id/overlay", h.overlay)
	api.Post("/:id/answers", h.answer)
}

type documentResponse struct {
	ID        string          `json:"id"`
	Format    string          `json:"format"`
	LineCount int             `json:"line_count"`
	Text      string          `json:"text"`
	Lines     []document.Line `json:"lines"`
}

type s3UploadRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type answerRequest struct {
	Question string `json:"question"`
}

type answerResponse struct {
	Found  bool   `json:"found"`
	Answer string `json:"answer,omitempty"`
	Notice string `json:"notice,omitempty"`
}

func (h *Handlers) upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errorRegistry.New(ErrMissingFile)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errx.Wrap(err, "failed to open uploaded file", errx.TypeValidation)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return errx.Wrap(err, "failed to read uploaded file", errx.TypeInternal)
	}

	session, err := h.svc.Process(c.Context(), data)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(sessionToResponse(session))
}

func (h *Handlers) uploadFromS3(c *fiber.Ctx) error {
	var req s3UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Wrap(err, "invalid request body", errx.TypeValidation)
	}
	if req.Bucket == "" || req.Key == "" {
		return errx.Validation("bucket and key are required")
	}

	object, err := h.s3Client.GetObject(c.Context(), &s3.GetObjectInput{
		Bucket: aws.String(req.Bucket),
		Key:    aws.String(req.Key),
	})
	if err != nil {
		return errx.Wrap(err, "failed to fetch object from S3", errx.TypeExternal).
			WithDetail("bucket", req.Bucket).
			WithDetail("key", req.Key)
	}
	defer object.Body.Close()

	data, err := io.ReadAll(object.Body)
	if err != nil {
		return errx.Wrap(err, "failed to read S3 object body", errx.TypeExternal)
	}

	session, err := h.svc.Process(c.Context(), data)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(sessionToResponse(session))
}

func (h *Handlers) get(c *fiber.Ctx) error {
	session, err := h.svc.Session(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(sessionToResponse(session))
}

func (h *Handlers) image(c *fiber.Ctx) error {
	session, err := h.svc.Session(c.Params("id"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "image/"+session.Format)
	return c.Send(session.Original)
}

func (h *Handlers) overlay(c *fiber.Ctx) error {
	session, err := h.svc.Session(c.Params("id"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(session.OverlayPNG)
}

func (h *Handlers) answer(c *fiber.Ctx) error {
	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Wrap(err, "invalid request body", errx.TypeValidation)
	}

	answer, err := h.svc.Ask(c.Context(), c.Params("id"), req.Question)
	if err != nil {
		if qa.IsNoAnswer(err) {
			// Soft failure by contract: the model ran but found nothing.
			return c.JSON(answerResponse{
				Found:  false,
				Notice: "Could not generate an answer for this question.",
			})
		}
		return err
	}

	return c.JSON(answerResponse{Found: true, Answer: answer})
}

func sessionToResponse(session *docstore.Session) documentResponse {
	return documentResponse{
		ID:        session.ID,
		Format:    session.Format,
		LineCount: len(session.Text.Lines),
		Text:      session.Text.Flatten(),
		Lines:     session.Text.Lines,
	}
}
