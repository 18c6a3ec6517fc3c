package translator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/chat"
	"github.com/oukeidos/batchsub/internal/srt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// reversingEcho answers with every requested entry's text reversed, in
// reverse order so that positional matching would fail.
func reversingEcho() chat.Completer {
	return chat.Func(func(_ context.Context, req chat.Request) chat.Result {
		entries := ParseReply(req.User)
		keys := make([]int, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(keys)))
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "[%d]\n%s\n\n", k, reverse(entries[k]))
		}
		return chat.Success(b.String())
	})
}

func newTestTranslator(t *testing.T, c chat.Completer) *Translator {
	t.Helper()
	tr, err := NewTranslator(c, Options{Model: "test-model", SystemPrompt: "rules", Temperature: 0.3})
	require.NoError(t, err)
	return tr
}

func TestTranslateBatch_RoundTripByIndex(t *testing.T) {
	batch := []srt.Block{
		{Index: 4, Original: "おはよう"},
		{Index: 5, Original: "ありがとう"},
		{Index: 6, Original: "また明日"},
	}
	tr := newTestTranslator(t, reversingEcho())

	out := tr.TranslateBatch(context.Background(), batch)
	require.False(t, out.Failed())
	merged := Merge(batch, out.Translations)

	for i, blk := range merged {
		assert.Equal(t, reverse(batch[i].Original), blk.Translated, "block %d", blk.Index)
	}
	assert.Empty(t, out.Missing)
	assert.Empty(t, out.Extraneous)
}

func TestTranslateBatch_SendsOneRequest(t *testing.T) {
	mock := &chat.MockCompleter{Results: []chat.Result{chat.Success("[1]\nHello")}}
	tr := newTestTranslator(t, mock)

	tr.TranslateBatch(context.Background(), []srt.Block{{Index: 1, Original: "こんにちは"}})

	require.Equal(t, 1, mock.Calls())
	req := mock.Requests[0]
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, "rules", req.System)
	assert.Equal(t, "[1]\nこんにちは", req.User)
	assert.InDelta(t, 0.3, req.Temperature, 1e-6)
}

func TestTranslateBatch_MissingIndex(t *testing.T) {
	mock := &chat.MockCompleter{Results: []chat.Result{chat.Success("[1]\nOne\n\n[2]\nTwo")}}
	tr := newTestTranslator(t, mock)
	batch := []srt.Block{{Index: 1, Original: "一"}, {Index: 2, Original: "二"}, {Index: 3, Original: "三"}}

	out := tr.TranslateBatch(context.Background(), batch)
	require.False(t, out.Failed())
	assert.Equal(t, []int{3}, out.Missing)

	merged := Merge(batch, out.Translations)
	assert.Equal(t, "One", merged[0].Translated)
	assert.Equal(t, "Two", merged[1].Translated)
	assert.Equal(t, "", merged[2].Translated)
}

func TestTranslateBatch_ExtraneousIndex(t *testing.T) {
	mock := &chat.MockCompleter{Results: []chat.Result{chat.Success("[1]\nOne\n\n[8]\nEight\n\n[9]\nNine")}}
	tr := newTestTranslator(t, mock)
	batch := []srt.Block{{Index: 1, Original: "一"}}

	out := tr.TranslateBatch(context.Background(), batch)
	assert.Equal(t, []int{8, 9}, out.Extraneous)
	assert.Equal(t, "Eight", out.Translations[8])
	assert.Equal(t, "One", Merge(batch, out.Translations)[0].Translated)
}

func TestTranslateBatch_FailureVersusEmptyReply(t *testing.T) {
	batch := []srt.Block{{Index: 1, Original: "一"}, {Index: 2, Original: "二"}}

	callErr := apperrors.New(apperrors.KindRateLimit, "", errors.New("429"))
	failed := newTestTranslator(t, &chat.MockCompleter{Results: []chat.Result{chat.Failure(callErr)}}).
		TranslateBatch(context.Background(), batch)
	empty := newTestTranslator(t, &chat.MockCompleter{Results: []chat.Result{chat.Success("no markers here")}}).
		TranslateBatch(context.Background(), batch)

	assert.True(t, failed.Failed())
	assert.True(t, apperrors.Is(failed.Err, apperrors.KindRateLimit))
	assert.Empty(t, failed.Translations)
	assert.Equal(t, []int{1, 2}, failed.Missing)

	assert.False(t, empty.Failed())
	assert.Empty(t, empty.Translations)
	assert.Equal(t, []int{1, 2}, empty.Missing)
}

func TestTranslateBatch_EmptyBatchMakesNoCall(t *testing.T) {
	mock := &chat.MockCompleter{}
	out := newTestTranslator(t, mock).TranslateBatch(context.Background(), nil)
	assert.Equal(t, 0, mock.Calls())
	assert.False(t, out.Failed())
	assert.Empty(t, out.Translations)
}

func TestNewTranslator_Validation(t *testing.T) {
	_, err := NewTranslator(nil, Options{Model: "m"})
	assert.True(t, apperrors.Is(err, apperrors.KindConfig))

	_, err = NewTranslator(&chat.MockCompleter{}, Options{Model: "  "})
	assert.True(t, apperrors.Is(err, apperrors.KindConfig))

	tr, err := NewTranslator(&chat.MockCompleter{}, Options{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, SystemPrompt("", "", ""), tr.systemPrompt)
}
