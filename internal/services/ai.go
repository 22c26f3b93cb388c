package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
	"github.com/wmhi/site-portal/internal/aggregate"
	"github.com/wmhi/site-portal/internal/constants"
	"github.com/wmhi/site-portal/internal/metrics"
	"github.com/wmhi/site-portal/internal/models"
	"go.uber.org/zap"
)

const (
	SummaryErrorText = "Error generating summary. Please check API configuration."
	SummaryEmptyText = "Could not generate summary."
	DraftErrorText   = "Error generating draft."
	DraftEmptyText   = "Could not generate draft."

	noRecentNotesText = "No recent site notes recorded."
)

var errAINotConfigured = errors.New("OpenAI client not initialized")

// AIService produces chat summaries and client SMS drafts. It never fails:
// errors are logged and replaced by fixed fallback text.
type AIService struct {
	client *openai.Client
	model  string
	logger *zap.Logger

	// one request in flight at a time
	mu sync.Mutex
}

// AIConfig configures an AIService. An empty APIKey leaves the client unset.
type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewAIService(apiKey, model string, logger *zap.Logger) *AIService {
	return NewAIServiceWithConfig(AIConfig{APIKey: apiKey, Model: model}, logger)
}

func NewAIServiceWithConfig(cfg AIConfig, logger *zap.Logger) *AIService {
	s := &AIService{
		model:  cfg.Model,
		logger: logger,
	}
	if s.model == "" {
		s.model = openai.GPT4o
	}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		s.client = openai.NewClientWithConfig(clientCfg)
	}
	return s
}

// SummarizeJobChat asks for a three-bullet status summary of a job's chat.
func (s *AIService) SummarizeJobChat(ctx context.Context, job models.Job, users []models.User) string {
	lines := make([]string, 0, len(job.Messages))
	for _, m := range job.Messages {
		lines = append(lines, fmt.Sprintf("%s: %s", aggregate.SenderLabel(users, m.SenderID), m.Text))
	}

	prompt := fmt.Sprintf(`You are a construction project assistant for West Midlands Home Improvements.
Read the following internal chat transcript for a job at %s.

Transcript:
%s

Provide a concise 3-bullet point summary of the current status and any issues.
Format as a plain text list using "• " for bullets.`, job.Address, strings.Join(lines, "\n"))

	return s.complete(ctx, "summary", prompt, SummaryErrorText, SummaryEmptyText)
}

// DraftClientUpdate asks for a short SMS to the client built from the most
// recent site diary notes.
func (s *AIService) DraftClientUpdate(ctx context.Context, job models.Job) string {
	recent := aggregate.RecentNotes(job.SiteNotes, constants.RecentNotesForDraft)
	contents := make([]string, 0, len(recent))
	for _, n := range recent {
		contents = append(contents, n.Content)
	}
	notes := strings.Join(contents, "\n")
	if notes == "" {
		notes = noRecentNotesText
	}

	prompt := fmt.Sprintf(`You are an office manager for West Midlands Home Improvements.
Draft a professional, friendly SMS update to the client (%s).

Context: The job is a %s at %s.
Internal Site Notes: "%s"

The tone should be reassuring and professional. Keep it under 160 characters if possible, or very short.
Do not include placeholders like [Your Name]. Sign off as "The WMHI Team".`, job.ClientName, job.Type, job.Address, notes)

	return s.complete(ctx, "draft", prompt, DraftErrorText, DraftEmptyText)
}

func (s *AIService) complete(ctx context.Context, kind, prompt, errorText, emptyText string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		s.logger.Warn("AI request skipped", zap.String("kind", kind), zap.Error(errAINotConfigured))
		metrics.AIRequestsTotal.WithLabelValues(kind, "unconfigured").Inc()
		return errorText
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		s.logger.Error("OpenAI API error", zap.String("kind", kind), zap.Error(err))
		metrics.AIRequestsTotal.WithLabelValues(kind, "error").Inc()
		return errorText
	}

	if len(resp.Choices) == 0 {
		s.logger.Error("no response from OpenAI", zap.String("kind", kind))
		metrics.AIRequestsTotal.WithLabelValues(kind, "error").Inc()
		return errorText
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		metrics.AIRequestsTotal.WithLabelValues(kind, "empty").Inc()
		return emptyText
	}
	metrics.AIRequestsTotal.WithLabelValues(kind, "ok").Inc()
	return content
}
