package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeValidation = "COMMAND_VALIDATION_FAILED"
	textCodeCanceled   = "COMMAND_CONTEXT_CANCELED"
	textCodeTimeout    = "COMMAND_CONTEXT_TIMEOUT"
	textCodeContext    = "COMMAND_CONTEXT_ERROR"
	textCodeExecute    = "COMMAND_EXECUTION_FAILED"
)

// Errors that already carry a go-errors category keep it.
func wrapValidationError(err error) error {
	return wrapOnce(err, goerrors.CategoryValidation, "command validation failed", textCodeValidation)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return wrapOnce(err, goerrors.CategoryCommand, "command execution cancelled", textCodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return wrapOnce(err, goerrors.CategoryCommand, "command execution deadline exceeded", textCodeTimeout)
	default:
		return wrapOnce(err, goerrors.CategoryCommand, "command context error", textCodeContext)
	}
}

func wrapExecuteError(err error) error {
	return wrapOnce(err, goerrors.CategoryCommand, "command execution failed", textCodeExecute)
}

func wrapOnce(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}
