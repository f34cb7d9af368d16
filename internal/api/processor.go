package api

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/formrobot/formrobot/internal/keyword"
	"github.com/formrobot/formrobot/internal/runner"
)

// Error kinds reported to API clients, so callers can tell a failed
// verification from a bad request without parsing messages.
const (
	KindElementNotFound = "ELEMENT_NOT_FOUND"
	KindArgument        = "ARGUMENT"
	KindVerification    = "VERIFICATION"
	KindMultiplicity    = "MULTIPLICITY"
	KindDriver          = "DRIVER"
)

// KeywordProcessor executes queued keyword tasks through the runner.
type KeywordProcessor struct {
	runner *runner.Manager
	debug  bool
}

// NewKeywordProcessor creates a new keyword processor
func NewKeywordProcessor(rm *runner.Manager, debug bool) *KeywordProcessor {
	return &KeywordProcessor{
		runner: rm,
		debug:  debug,
	}
}

// ProcessTask executes one keyword and classifies its outcome.
func (p *KeywordProcessor) ProcessTask(ctx context.Context, task *KeywordTask) *TaskResult {
	if ctx.Err() != nil {
		return &TaskResult{
			Status: "FAIL",
			Error:  ctx.Err(),
			Kind:   KindDriver,
		}
	}

	value, err := p.runner.ExecuteKeyword(task.Keyword, task.Args)
	if err != nil {
		log.Debugf("keyword %s failed: %v", task.Keyword, err)
		return &TaskResult{
			Status: "FAIL",
			Error:  err,
			Kind:   classify(err),
		}
	}

	return &TaskResult{
		Status: "PASS",
		Return: value,
	}
}

func classify(err error) string {
	var notFound *keyword.ElementNotFoundError
	var argument *keyword.ArgumentError
	var verification *keyword.VerificationError
	var multiplicity *keyword.MultiplicityError

	switch {
	case errors.As(err, &notFound):
		return KindElementNotFound
	case errors.As(err, &argument):
		return KindArgument
	case errors.As(err, &verification):
		return KindVerification
	case errors.As(err, &multiplicity):
		return KindMultiplicity
	default:
		return KindDriver
	}
}
