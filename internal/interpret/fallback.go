package interpret

import (
	"context"

	"go.uber.org/zap"

	"github.com/intecdocs/docfinder/internal/models"
)

// FallbackInterpreter tries the primary interpreter and falls back to the
// secondary when the primary fails. With the rule engine as secondary the
// combined interpreter never fails, preserving the "interpretation always
// yields parameters" contract even with an LLM primary.
type FallbackInterpreter struct {
	primary   Interpreter
	secondary Interpreter
	logger    *zap.Logger
}

// NewFallbackInterpreter wraps primary with secondary as the fallback.
func NewFallbackInterpreter(primary, secondary Interpreter, logger *zap.Logger) *FallbackInterpreter {
	return &FallbackInterpreter{primary: primary, secondary: secondary, logger: logger}
}

// Interpret delegates to the primary and falls back on error.
func (f *FallbackInterpreter) Interpret(ctx context.Context, query string) (*models.QueryParameters, error) {
	params, err := f.primary.Interpret(ctx, query)
	if err == nil {
		return params, nil
	}
	if f.logger != nil {
		f.logger.Warn("primary interpreter failed, using fallback", zap.Error(err))
	}
	return f.secondary.Interpret(ctx, query)
}
