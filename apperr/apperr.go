// Package apperr defines the failure kinds surfaced to callers of the SEO tools.
//
// Every external call is converted into one of these kinds at the boundary
// closest to it, so presentation code only ever sees a kind and a plain
// message, never a raw transport or model client error.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when caller data fails local validation
	// before any external call is made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrFetch is returned for network or HTTP failures reaching an external resource.
	ErrFetch = errors.New("fetch failed")
	// ErrModelInvocation is returned when the model call failed or its output
	// did not validate against the flow's output schema.
	ErrModelInvocation = errors.New("model invocation failed")
	// ErrGenerationFailed is returned by the content pipeline when the article
	// could not be produced.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrPersistenceFailed is returned when the blog store could not complete a write.
	ErrPersistenceFailed = errors.New("persistence failed")
)

// Error attaches a failure kind to an underlying cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidInput builds an ErrInvalidInput with a formatted message.
func InvalidInput(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind. A nil err yields nil.
func Wrap(kind error, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// Wrapf tags err with kind and a formatted context message.
func Wrapf(kind error, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// FetchError describes a failed request to an external resource.
// StatusCode is zero when no HTTP response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s (status %d)", e.URL, e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

var kinds = []error{
	ErrInvalidInput,
	ErrFetch,
	ErrModelInvocation,
	ErrGenerationFailed,
	ErrPersistenceFailed,
}

// Kind returns the outermost failure kind carried by err, or nil if err has
// none. A generation failure caused by a model failure is a generation failure.
func Kind(err error) error {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Kind
		case *FetchError:
			return ErrFetch
		}
		for _, kind := range kinds {
			if err == kind {
				return kind
			}
		}
		err = errors.Unwrap(err)
	}
	return nil
}

// Message returns the plain-language description shown to users for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	switch Kind(err) {
	case ErrInvalidInput:
		var ae *Error
		if errors.As(err, &ae) && ae.Kind == ErrInvalidInput && ae.Msg != "" {
			return ae.Msg
		}
		return "The request contained invalid data."
	case ErrFetch:
		var fe *FetchError
		if errors.As(err, &fe) && fe.StatusCode != 0 {
			return fmt.Sprintf("Failed to fetch the resource. Status: %d", fe.StatusCode)
		}
		return "Failed to reach the requested resource."
	case ErrModelInvocation:
		return "Analysis unavailable. The AI model may be unavailable or the URL may be inaccessible."
	case ErrGenerationFailed:
		return "Could not generate the blog post."
	case ErrPersistenceFailed:
		return "Could not save the blog post."
	}
	return "An unexpected error occurred."
}
