package cleanup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAll_ReverseOrderAndJoin(t *testing.T) {
	var order []string
	record := func(name string, err error) func() error {
		return func() error {
			order = append(order, name)
			return err
		}
	}
	errClose := errors.New("already closed")
	Register("log file", record("log file", errClose))
	Register("ignored", nil)
	Register("gemini client", record("gemini client", nil))
	Register("http", record("http", errors.New("reset")))

	err := RunAll()
	assert.Equal(t, []string{"http", "gemini client", "log file"}, order)
	require.Error(t, err)
	assert.Equal(t, "http: reset\nlog file: already closed", err.Error())
	assert.ErrorIs(t, err, errClose)

	assert.NoError(t, RunAll(), "second RunAll should be a no-op")
}
