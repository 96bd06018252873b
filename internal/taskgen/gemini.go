package taskgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const geminiPrompt = `You are a project manager breaking a freelance project into tasks.

PROJECT DESCRIPTION:
%s

Return between 1 and %d tasks. Reply STRICTLY with a JSON array:
[{"title": "short imperative title", "description": "one sentence", "estimatedDays": 1-7}]`

// Gemini asks a Gemini model for tasks and falls back to the heuristic
// splitter when the call or the reply fails.
type Gemini struct {
	generate func(ctx context.Context, prompt string) (string, error)
	logger   *zap.Logger
}

func NewGemini(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := client.Models.GenerateContent(ctx, model,
				[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
				&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
			)
			if err != nil {
				return "", err
			}
			return resp.Text(), nil
		},
		logger: logger,
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, description string, opts Options) ([]Task, error) {
	if strings.TrimSpace(description) == "" {
		return []Task{}, nil
	}

	limit := opts.NumTasks
	if limit <= 0 {
		limit = defaultMaxTasks
	}

	reply, err := g.generate(ctx, fmt.Sprintf(geminiPrompt, description, limit))
	if err != nil {
		g.logger.Warn("Gemini task generation failed, using heuristic", zap.Error(err))
		return Split(description, opts), nil
	}

	tasks, err := parseReply(reply, opts)
	if err != nil || len(tasks) == 0 {
		g.logger.Warn("unusable Gemini reply, using heuristic", zap.Error(err))
		return Split(description, opts), nil
	}
	return tasks, nil
}

type geminiTask struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	EstimatedDays int    `json:"estimatedDays"`
}

// parseReply decodes the model's JSON array, tolerating a fenced code block.
func parseReply(reply string, opts Options) ([]Task, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.Trim(reply, "`")
	reply = strings.TrimPrefix(reply, "json")
	reply = strings.TrimSpace(reply)

	var raw []geminiTask
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode reply: %w", err)
	}

	target := len(raw)
	if opts.NumTasks > 0 && opts.NumTasks < target {
		target = opts.NumTasks
	}

	tasks := make([]Task, 0, target)
	for idx, t := range raw[:target] {
		if strings.TrimSpace(t.Title) == "" {
			continue
		}
		task := Task{
			Title:       t.Title,
			Description: t.Description,
			Timeline:    Timeline{EstimatedDays: min(maxEstimateDays, max(1, t.EstimatedDays))},
		}
		if opts.Budget != 0 {
			price := jsRound(opts.Budget / float64(max(1, target)) * (1 - float64(idx)*0.05))
			task.Price = &price
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
