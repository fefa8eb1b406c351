// Package responder turns caller utterances into spoken replies via an
// OpenAI-compatible chat-completion endpoint.
package responder

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	"github.com/bearteam/frontdesk/reception/brokerage"
	contractx "github.com/bearteam/frontdesk/reception/contract"
)

const (
	// FallbackUnavailable is spoken when no model client is configured.
	FallbackUnavailable = "I apologize, our system is having trouble right now."
	// FallbackError is spoken when a model call fails mid-conversation.
	FallbackError = "Sorry, I'm having a little trouble right now. Please hold and someone will be right with you."
)

// Responder answers caller questions with the brokerage system prompt and
// the full call history. It never propagates a hard failure: the controller
// always gets some speakable string, plus an error for the log.
type Responder struct {
	client       *openaisdk.Client
	model        string
	maxTokens    int64
	systemPrompt string
}

func New(client *openaisdk.Client, model string, maxTokens int) *Responder {
	if maxTokens <= 0 {
		maxTokens = 150
	}
	return &Responder{
		client:       client,
		model:        strings.TrimSpace(model),
		maxTokens:    int64(maxTokens),
		systemPrompt: brokerage.SystemPrompt(),
	}
}

// Respond sends the conversation to the model and returns the scrubbed
// reply. On any failure the returned string is a canned apology and the
// error identifies the broken dependency; callers speak the string and log
// the error.
func (r *Responder) Respond(ctx context.Context, utterance string, history []contractx.Turn) (string, error) {
	if r.client == nil {
		return FallbackUnavailable, fmt.Errorf("%w: no model client configured", contractx.ErrModelInvoke)
	}

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openaisdk.SystemMessage(r.systemPrompt))
	for _, turn := range history {
		switch turn.Role {
		case contractx.RoleAssistant:
			messages = append(messages, openaisdk.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openaisdk.UserMessage(turn.Text))
		}
	}
	// The controller records the utterance before calling here; only add it
	// when it is not already the trailing user turn.
	if len(history) == 0 || history[len(history)-1].Text != utterance {
		messages = append(messages, openaisdk.UserMessage(utterance))
	}

	completion, err := r.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:     openaisdk.ChatModel(r.model),
		MaxTokens: openaisdk.Int(r.maxTokens),
		Messages:  messages,
	})
	if err != nil {
		return FallbackError, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if len(completion.Choices) == 0 {
		return FallbackError, fmt.Errorf("%w: empty completion", contractx.ErrModelInvoke)
	}

	reply := Scrub(completion.Choices[0].Message.Content)
	if reply == "" {
		return FallbackError, fmt.Errorf("%w: blank reply after scrubbing", contractx.ErrModelInvoke)
	}
	return reply, nil
}
