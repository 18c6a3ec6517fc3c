// Package chat defines the single capability the translation pipeline needs
// from a language model: send a system instruction and a user message, get
// text back.
package chat

import (
	"context"
	"errors"
)

// Request is one non-streaming chat completion call.
type Request struct {
	Model       string
	System      string
	User        string
	Temperature float32
}

// Result is either a successful reply or a failure reason, never both.
type Result struct {
	Text string
	Err  error
}

// Success wraps a reply text.
func Success(text string) Result { return Result{Text: text} }

// Failure wraps a transport or API error. A nil err is replaced so that a
// failure can never be mistaken for an empty reply.
func Failure(err error) Result {
	if err == nil {
		err = errors.New("chat completion failed")
	}
	return Result{Err: err}
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Completer performs a blocking chat completion.
type Completer interface {
	Complete(ctx context.Context, req Request) Result
}

// Func adapts a plain function to Completer.
type Func func(ctx context.Context, req Request) Result

func (f Func) Complete(ctx context.Context, req Request) Result { return f(ctx, req) }
