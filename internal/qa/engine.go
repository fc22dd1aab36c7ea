// Package qa answers user questions grounded on the indexed product records.
package qa

import (
	"context"
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"shopqa/internal/model"
	"shopqa/internal/observability"
	"shopqa/internal/repository"
)

// ErrAnswerUnavailable wraps any failure between the question and a grounded
// answer. Callers surface it as an explicit "could not answer", never as a
// silently substituted guess.
var ErrAnswerUnavailable = errors.New("answer unavailable")

// NoEvidenceAnswer is returned when retrieval finds nothing to ground an
// answer on. It is an answer, not an error.
const NoEvidenceAnswer = "I couldn't find product data to answer that — try rephrasing, or search for the product first so it gets indexed."

const (
	chatModel   = openai.GPT4oMini
	temperature = 0.2
)

type Retriever interface {
	SearchSimilar(ctx context.Context, embedding []float32, minScore float64, limit int) ([]repository.VectorResult, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Engine struct {
	Vectors  Retriever
	Embedder Embedder
	LLM      *openai.Client
	Sessions *SessionStore

	TopK     int
	MinScore float64
}

// Answer retrieves evidence for the question and asks the model for a
// grounded reply, carrying the session's recent history.
func (e *Engine) Answer(ctx context.Context, sessionID, question string) (string, error) {
	topK := e.TopK
	if topK <= 0 {
		topK = 3
	}

	qEmb, err := e.Embedder.Embed(ctx, question)
	if err != nil {
		observability.AnswerFailures.Inc()
		return "", fmt.Errorf("%w: %v", ErrAnswerUnavailable, err)
	}

	items, err := e.Vectors.SearchSimilar(ctx, qEmb, e.MinScore, topK)
	if err != nil {
		observability.AnswerFailures.Inc()
		return "", fmt.Errorf("%w: %v", ErrAnswerUnavailable, err)
	}
	if len(items) == 0 {
		return NoEvidenceAnswer, nil
	}

	var history []model.ChatMessage
	if e.Sessions != nil {
		history = e.Sessions.Get(ctx, sessionID)
	}

	answer, err := e.callLLM(ctx, EvidenceBlock(items), history, question)
	if err != nil {
		observability.AnswerFailures.Inc()
		return "", fmt.Errorf("%w: %v", ErrAnswerUnavailable, err)
	}
	observability.AnswersTotal.Inc()

	if e.Sessions != nil {
		if err := e.Sessions.Append(ctx, sessionID, model.ChatMessage{Role: "user", Content: question}); err != nil {
			log.Printf("[qa] failed to save history: %v", err)
		}
		if err := e.Sessions.Append(ctx, sessionID, model.ChatMessage{Role: "assistant", Content: answer}); err != nil {
			log.Printf("[qa] failed to save history: %v", err)
		}
	}

	return answer, nil
}

func (e *Engine) callLLM(ctx context.Context, evidence string, history []model.ChatMessage, question string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: "system", Content: SystemPrompt()},
		{Role: "system", Content: "PRODUCT EVIDENCE:\n" + evidence},
	}
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: "user", Content: question})

	resp, err := e.LLM.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       chatModel,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
