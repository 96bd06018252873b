// Package taskgen turns a free-text project description into suggested tasks.
package taskgen

import (
	"context"

	"connekt/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Options struct {
	NumTasks int     `json:"numTasks,omitempty"`
	Budget   float64 `json:"budget,omitempty"`
}

type Timeline struct {
	Start         *string `json:"start"`
	Due           *string `json:"due"`
	EstimatedDays int     `json:"estimatedDays"`
}

type Task struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Timeline    Timeline `json:"timeline"`
	Price       *float64 `json:"price,omitempty"`
}

type Generator interface {
	Generate(ctx context.Context, description string, opts Options) ([]Task, error)
}

type GeneratorParams struct {
	fx.In

	Config *config.AppConfig
	Logger *zap.Logger
}

// NewGenerator returns the Gemini generator when an API key is configured and
// the heuristic splitter otherwise.
func NewGenerator(p GeneratorParams) Generator {
	if p.Config.Gemini.APIKey == "" {
		return Heuristic{}
	}
	gen, err := NewGemini(context.Background(), p.Config.Gemini.APIKey, p.Config.Gemini.Model, p.Logger)
	if err != nil {
		p.Logger.Warn("failed to create Gemini client, using heuristic task generator", zap.Error(err))
		return Heuristic{}
	}
	p.Logger.Info("using Gemini task generator", zap.String("model", p.Config.Gemini.Model))
	return gen
}
