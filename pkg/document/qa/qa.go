// Package qa answers free-form questions about extracted document text
// via the Bedrock text-completion API.
package qa

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// promptTemplate grounds the model on the extracted document text. The
// question and context are embedded verbatim; long contexts are the
// caller's problem.
const promptTemplate = `Human: You are a helpful assistant that answers questions based on the provided document context.

Document Context:
%s

Question: %s

Assistant:`

// InvokeAPI is the slice of the Bedrock runtime client this package calls.
type InvokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// completionRequest is the text-completion request body.
type completionRequest struct {
	Prompt            string  `json:"prompt"`
	MaxTokensToSample int     `json:"max_tokens_to_sample"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
}

// completionResponse is the consumed slice of the response body.
type completionResponse struct {
	Completion string `json:"completion"`
}

// AnswererOption configures the answerer.
type AnswererOption func(*Answerer)

// WithModel sets the model ID.
func WithModel(model string) AnswererOption {
	return func(a *Answerer) { a.modelID = model }
}

// WithMaxTokens caps the generated length.
func WithMaxTokens(n int) AnswererOption {
	return func(a *Answerer) { a.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) AnswererOption {
	return func(a *Answerer) { a.temperature = t }
}

// WithTopP sets the nucleus-sampling threshold.
func WithTopP(p float64) AnswererOption {
	return func(a *Answerer) { a.topP = p }
}

// Answerer invokes the generation model with a fixed prompt template.
// Each call is independent; there is no conversation memory.
type Answerer struct {
	client      InvokeAPI
	modelID     string
	maxTokens   int
	temperature float64
	topP        float64
}

// NewAnswerer creates an answerer from an AWS config.
func NewAnswerer(cfg aws.Config, opts ...AnswererOption) *Answerer {
	return NewAnswererWithClient(bedrockruntime.NewFromConfig(cfg), opts...)
}

// NewAnswererWithClient creates an answerer around an existing client.
func NewAnswererWithClient(client InvokeAPI, opts ...AnswererOption) *Answerer {
	a := &Answerer{
		client:      client,
		modelID:     "anthropic.claude-v2",
		maxTokens:   1000,
		temperature: 0.5,
		topP:        0.9,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Answer renders the prompt with the full context and question and
// invokes the model once. It returns the trimmed completion, an
// ErrEmptyCompletion error when the call succeeds but yields nothing
// usable, or a service error otherwise. An empty context is still sent.
func (a *Answerer) Answer(ctx context.Context, contextText, question string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Prompt:            fmt.Sprintf(promptTemplate, contextText, question),
		MaxTokensToSample: a.maxTokens,
		Temperature:       a.temperature,
		TopP:              a.topP,
	})
	if err != nil {
		return "", errorRegistry.NewWithCause(ErrAPIRequest, err)
	}

	output, err := a.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(a.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", ParseBedrockError(err).WithDetail("model", a.modelID)
	}

	var resp completionResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return "", errorRegistry.NewWithCause(ErrAPIResponse, err).
			WithDetail("model", a.modelID)
	}

	answer := strings.TrimSpace(resp.Completion)
	if answer == "" {
		return "", errorRegistry.New(ErrEmptyCompletion).
			WithDetail("model", a.modelID)
	}

	return answer, nil
}
