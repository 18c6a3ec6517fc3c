package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/auth"
	"github.com/oukeidos/batchsub/internal/chat"
	"github.com/oukeidos/batchsub/internal/config"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// isolate runs the test in an empty working directory with an empty home so
// no stray config or dotenv file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)
	return dir
}

// withStubbedBackend replaces key resolution and the chat backend.
func withStubbedBackend(t *testing.T, completer chat.Completer) *config.Config {
	t.Helper()
	seen := &config.Config{}
	origResolve, origNew := resolveAPIKey, newCompleter
	resolveAPIKey = func(provider, configured string, allowEnv bool) (string, auth.Source, error) {
		return "sk-test", auth.SourceKeychain, nil
	}
	newCompleter = func(_ context.Context, cfg *config.Config, apiKey string) (chat.Completer, error) {
		*seen = *cfg
		return completer, nil
	}
	t.Cleanup(func() {
		resolveAPIKey, newCompleter = origResolve, origNew
	})
	return seen
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaultModel(t *testing.T) {
	if got := defaultModel(config.ProviderOpenAI); got != "deepseek-chat" {
		t.Fatalf("openai default = %q", got)
	}
	if got := defaultModel(config.ProviderGemini); got != "gemini-2.0-flash" {
		t.Fatalf("gemini default = %q", got)
	}
}

func TestDefaultCompleter_OpenAI(t *testing.T) {
	c, err := defaultCompleter(context.Background(), &config.Config{Provider: config.ProviderOpenAI, BaseURL: "http://localhost:1/"}, "sk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c == nil {
		t.Fatalf("expected completer")
	}
}

func TestDefaultCompleter_UnknownProvider(t *testing.T) {
	_, err := defaultCompleter(context.Background(), &config.Config{Provider: "nope"}, "sk")
	if err == nil || !strings.Contains(err.Error(), `Unknown provider "nope".`) {
		t.Fatalf("expected unknown provider error naming the provider, got %v", err)
	}
	if !apperrors.Is(err, apperrors.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestSetupLogging_RejectsSymlinkLogFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.log")
	writeFile(t, target, "")
	link := filepath.Join(dir, "link.log")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}
	if err := setupLogging("info", false, link); err == nil {
		t.Fatalf("expected symlink log path to be rejected")
	}
}
