// Package extract wraps AWS Textract text detection and normalizes its
// response into the document model.
package extract

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/iQuantC/docsight/pkg/document"
)

// DetectAPI is the slice of the Textract client this package calls.
type DetectAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// Extractor calls Textract text detection on raw image bytes.
type Extractor struct {
	client DetectAPI
}

// NewExtractor creates an extractor from an AWS config.
func NewExtractor(cfg aws.Config) *Extractor {
	return &Extractor{client: textract.NewFromConfig(cfg)}
}

// NewExtractorWithClient creates an extractor around an existing client.
func NewExtractorWithClient(client DetectAPI) *Extractor {
	return &Extractor{client: client}
}

// Extract sends the encoded image bytes to Textract and returns the
// detected LINE blocks in service order. Word- and page-level blocks are
// discarded. One outbound call, no retries.
func (e *Extractor) Extract(ctx context.Context, imageBytes []byte) (*document.Text, error) {
	output, err := e.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: imageBytes},
	})
	if err != nil {
		return nil, ParseTextractError(err).
			WithDetail("payload_bytes", len(imageBytes))
	}

	return linesFromBlocks(output.Blocks)
}

// linesFromBlocks filters blocks to LINE items, preserving order.
func linesFromBlocks(blocks []types.Block) (*document.Text, error) {
	text := &document.Text{}

	for _, block := range blocks {
		if block.BlockType != types.BlockTypeLine {
			continue
		}

		// LINE blocks always carry text and geometry; a missing field
		// means the upstream response is not what it claims to be.
		if block.Text == nil {
			return nil, errorRegistry.New(ErrMalformedResponse).
				WithDetail("reason", "LINE block without text")
		}
		if block.Geometry == nil || block.Geometry.BoundingBox == nil {
			return nil, errorRegistry.New(ErrMalformedResponse).
				WithDetail("reason", "LINE block without bounding box").
				WithDetail("text", aws.ToString(block.Text))
		}

		box := block.Geometry.BoundingBox
		text.Lines = append(text.Lines, document.Line{
			Text: aws.ToString(block.Text),
			Box: document.Box{
				Left:   float64(box.Left),
				Top:    float64(box.Top),
				Width:  float64(box.Width),
				Height: float64(box.Height),
			},
		})
	}

	return text, nil
}
