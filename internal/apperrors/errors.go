package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	// Transport classification of a chat call.
	KindTransient  Kind = "transient"
	KindRateLimit  Kind = "rate_limit"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindBadRequest Kind = "bad_request"

	// Pipeline taxonomy.
	KindParse   Kind = "parse"
	KindConfig  Kind = "config"
	KindPersist Kind = "persist"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindTransient:
		return "Temporary upstream error. Please try again."
	case KindRateLimit:
		return "Rate limit exceeded. Please try again later."
	case KindAuth:
		return "Authentication failed. Please verify your API key and permissions."
	case KindValidation:
		return "Response validation failed."
	case KindBadRequest:
		return "Request rejected by upstream API."
	case KindParse:
		return "Subtitle file could not be read."
	case KindConfig:
		return "Invalid configuration."
	case KindPersist:
		return "Output file could not be written."
	default:
		return "Request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func Transient(err error) error  { return New(KindTransient, "", err) }
func Validation(err error) error { return New(KindValidation, "", err) }
func Config(err error) error     { return New(KindConfig, configMessage(err), err) }

// configMessage shows the reason of a configuration error, which is always
// built locally and never carries upstream text.
func configMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// Fatal reports whether err must terminate a run. Only unreadable input and
// bad configuration do; everything else is absorbed per batch.
func Fatal(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	return k == KindParse || k == KindConfig
}
