package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/project-task-api/internal/constants"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/logging"
	"github.com/yukikurage/project-task-api/internal/models"
)

var ErrAIServiceUnavailable = apierrors.ServiceUnavailable("AI service is unavailable")

type AIService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

// SuggestedTask is one task proposed by the model after sanitizing.
type SuggestedTask struct {
	Name        string
	Description *string
	Priority    *models.TaskPriority
	DueDate     *time.Time
}

type generatedTask struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
}

// NewAIService creates a client for the OpenAI API. An empty key leaves the
// service unconfigured.
func NewAIService(apiKey string) *AIService {
	if apiKey == "" {
		return &AIService{model: openai.GPT4o, now: time.Now}
	}
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey))
}

// NewAIServiceWithConfig creates a service from an explicit client config.
func NewAIServiceWithConfig(config openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(config),
		model:  openai.GPT4o,
		now:    time.Now,
	}
}

// Configured reports whether an API client is available.
func (s *AIService) Configured() bool {
	return s.client != nil
}

// SuggestTasks extracts concrete tasks for a project from free text.
func (s *AIService) SuggestTasks(ctx context.Context, projectName, text string) ([]SuggestedTask, error) {
	if !s.Configured() {
		return nil, ErrAIServiceNotConfigured
	}

	today := s.now().Format("2006-01-02")
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete tasks for the project %q from the text below.

Today: %s

Text:
%s

Return a JSON array only, no prose:
[
  {
    "name": "short task name",
    "description": "details of the task",
    "priority": "low, medium or high",
    "due_date": "YYYY-MM-DD, or null when no deadline is stated"
  }
]

Rules:
- Return [] when the text contains no tasks
- Convert relative deadlines ("tomorrow", "next week") into dates
- Return at most %d tasks`, projectName, today, text, constants.MaxAIGeneratedTasks)

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
		logging.Ctx(ctx).Error().Err(err).Msg("OpenAI API error")
		return nil, ErrAIServiceUnavailable
	}

	if len(resp.Choices) == 0 {
		logging.Ctx(ctx).Error().Msg("No response from OpenAI")
		return nil, ErrAIServiceUnavailable
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var generated []generatedTask
	if err := json.Unmarshal([]byte(content), &generated); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("response", content).Msg("Failed to parse OpenAI response")
		return nil, ErrAIServiceUnavailable
	}

	return s.sanitize(generated), nil
}

// sanitize drops unnamed tasks, unknown priorities and past due dates.
func (s *AIService) sanitize(generated []generatedTask) []SuggestedTask {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	tasks := make([]SuggestedTask, 0, len(generated))
	for _, g := range generated {
		if len(tasks) == constants.MaxAIGeneratedTasks {
			break
		}

		name := strings.TrimSpace(g.Name)
		if name == "" {
			continue
		}
		if runes := []rune(name); len(runes) > constants.MaxNameLength {
			name = string(runes[:constants.MaxNameLength])
		}

		task := SuggestedTask{Name: name}
		if description := strings.TrimSpace(g.Description); description != "" {
			task.Description = &description
		}
		if priority := models.TaskPriority(strings.ToLower(strings.TrimSpace(g.Priority))); isTaskPriority(priority) {
			task.Priority = &priority
		}
		if g.DueDate != nil {
			if due, ok := parseDueDate(*g.DueDate); ok && !due.Before(today) {
				task.DueDate = &due
			}
		}

		tasks = append(tasks, task)
	}

	return tasks
}

func isTaskPriority(p models.TaskPriority) bool {
	for _, known := range models.TaskPriorities {
		if string(p) == known {
			return true
		}
	}
	return false
}

func parseDueDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
