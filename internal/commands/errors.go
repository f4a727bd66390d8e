package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-assemble/internal/domain"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"

	parseErrorCode  = "PARSE_ERROR"
	layoutErrorCode = "LAYOUT_ERROR"
	renderErrorCode = "RENDER_ERROR"
	ioErrorCode     = "IO_ERROR"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if wrapped := wrapFailure(err); wrapped != nil {
		return wrapped
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}

// wrapFailure categorises the build failures raised by the generator.
func wrapFailure(err error) *goerrors.Error {
	var (
		parseErr  *domain.ParseError
		layoutErr *domain.LayoutError
		renderErr *domain.RenderError
		ioErr     *domain.IOError
	)
	switch {
	case errors.As(err, &parseErr):
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "source could not be parsed").
			WithTextCode(parseErrorCode)
	case errors.As(err, &layoutErr):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "layout could not be applied").
			WithTextCode(layoutErrorCode)
	case errors.As(err, &renderErr):
		return goerrors.Wrap(err, goerrors.CategoryInternal, "template could not be rendered").
			WithTextCode(renderErrorCode)
	case errors.As(err, &ioErr):
		return goerrors.Wrap(err, goerrors.CategoryInternal, "filesystem operation failed").
			WithTextCode(ioErrorCode)
	}
	return nil
}

// Normalize returns err as a categorised go-errors value. Errors already
// wrapped by go-errors are returned untouched.
func Normalize(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	var existing *goerrors.Error
	if errors.As(err, &existing) {
		return existing
	}
	if wrapped := wrapFailure(err); wrapped != nil {
		return wrapped
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		var wrapped *goerrors.Error
		if errors.As(wrapContextError(err), &wrapped) {
			return wrapped
		}
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}

// Report is the printable summary of a failed build.
type Report struct {
	Name    string
	Reason  string
	Message string
	Code    string
	Stack   string
}

// Describe summarises err for display. Build failures contribute their name,
// reason and captured stack.
func Describe(err error) Report {
	if err == nil {
		return Report{}
	}
	report := Report{Name: "Error", Message: err.Error()}
	if normalized := Normalize(err); normalized != nil {
		report.Code = normalized.TextCode
	}
	var failure domain.Failure
	if errors.As(err, &failure) {
		details := failure.Details()
		report.Name = failure.Name()
		report.Reason = details.Reason
		report.Message = failure.Error()
		report.Stack = string(details.Stack())
	}
	return report
}
