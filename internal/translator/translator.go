// Package translator turns one batch of subtitle blocks into one chat call and
// maps the reply back onto block indices.
package translator

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/chat"
	"github.com/oukeidos/batchsub/internal/logger"
	"github.com/oukeidos/batchsub/internal/srt"
)

// Options configures a Translator.
type Options struct {
	Model        string
	SystemPrompt string
	Temperature  float32
}

// Translator sends batches through a chat.Completer.
type Translator struct {
	completer    chat.Completer
	model        string
	systemPrompt string
	temperature  float32
}

// NewTranslator creates a new Translator instance.
func NewTranslator(completer chat.Completer, opts Options) (*Translator, error) {
	if completer == nil {
		return nil, apperrors.Config(errors.New("translator: completer is nil"))
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, apperrors.New(apperrors.KindConfig, "Model name is required.", errors.New("translator: empty model"))
	}
	prompt := opts.SystemPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = SystemPrompt("", "", "")
	}
	return &Translator{
		completer:    completer,
		model:        opts.Model,
		systemPrompt: prompt,
		temperature:  opts.Temperature,
	}, nil
}

// Outcome is the result of translating one batch. Err is set only when the
// chat call itself failed; a reply that translated nothing has Err == nil and
// an empty map.
type Outcome struct {
	Translations TranslationMap
	// Missing lists batch indices the reply did not cover.
	Missing []int
	// Extraneous lists reply indices that are not part of the batch.
	Extraneous []int
	Err        error
}

// Failed reports whether the chat call failed.
func (o Outcome) Failed() bool { return o.Err != nil }

// TranslateBatch makes exactly one chat call for batch. Call failures are
// returned inside the Outcome and never retried here.
func (t *Translator) TranslateBatch(ctx context.Context, batch []srt.Block) Outcome {
	if len(batch) == 0 {
		return Outcome{Translations: TranslationMap{}}
	}
	res := t.completer.Complete(ctx, chat.Request{
		Model:       t.model,
		System:      t.systemPrompt,
		User:        BuildPayload(batch),
		Temperature: t.temperature,
	})
	if !res.OK() {
		logger.Warn("Batch translation call failed",
			"first_index", batch[0].Index,
			"blocks", len(batch),
			"kind", kindLabel(res.Err),
			"error", apperrors.PublicMessage(res.Err),
		)
		return Outcome{Translations: TranslationMap{}, Missing: indices(batch), Err: res.Err}
	}

	m := ParseReply(res.Text)
	out := Outcome{Translations: m}
	want := make(map[int]bool, len(batch))
	for _, blk := range batch {
		want[blk.Index] = true
		if _, ok := m[blk.Index]; !ok {
			out.Missing = append(out.Missing, blk.Index)
		}
	}
	for idx := range m {
		if !want[idx] {
			out.Extraneous = append(out.Extraneous, idx)
		}
	}
	sort.Ints(out.Extraneous)

	if len(out.Missing) > 0 || len(out.Extraneous) > 0 {
		logger.Debug("Reply did not match batch",
			"first_index", batch[0].Index,
			"missing", out.Missing,
			"extraneous", out.Extraneous,
		)
	}
	return out
}

func indices(batch []srt.Block) []int {
	out := make([]int, len(batch))
	for i, blk := range batch {
		out[i] = blk.Index
	}
	return out
}

func kindLabel(err error) string {
	if k, ok := apperrors.KindOf(err); ok {
		return string(k)
	}
	return "unknown"
}
