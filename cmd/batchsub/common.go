package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/auth"
	"github.com/oukeidos/batchsub/internal/chat"
	"github.com/oukeidos/batchsub/internal/cleanup"
	"github.com/oukeidos/batchsub/internal/config"
	"github.com/oukeidos/batchsub/internal/files"
	"github.com/oukeidos/batchsub/internal/gemini"
	"github.com/oukeidos/batchsub/internal/logger"
	"github.com/oukeidos/batchsub/internal/openai"
)

// Swapped in tests.
var (
	resolveAPIKey = func(provider, configured string, allowEnv bool) (string, auth.Source, error) {
		return auth.DefaultResolver(allowEnv).Resolve(provider, configured)
	}
	newCompleter = defaultCompleter
)

func defaultCompleter(ctx context.Context, cfg *config.Config, apiKey string) (chat.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, apiKey)
		if err != nil {
			return nil, err
		}
		cleanup.Register("gemini client", c.Close)
		return c, nil
	case config.ProviderOpenAI:
		c := openai.NewClient(apiKey, cfg.BaseURL)
		logger.Debug("Using OpenAI-compatible endpoint", "url", c.BaseURL())
		return c, nil
	default:
		return nil, apperrors.New(apperrors.KindConfig, fmt.Sprintf("Unknown provider %q.", cfg.Provider), nil)
	}
}

func defaultModel(provider string) string {
	if provider == config.ProviderGemini {
		return gemini.DefaultModel
	}
	return openai.DefaultModel
}

// setupLogging initialises the global logger and, when path is set, a JSONL
// sink appended to that file.
func setupLogging(level string, debug bool, path string) error {
	lvl := logger.ParseLevel(level)
	if debug {
		lvl = logger.LevelDebug
	}
	var logFileW io.Writer
	if path != "" {
		if err := files.RejectSymlinkPath(path); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register("log file", f.Close)
		logFileW = f
	}
	logger.Init(lvl, logFileW)
	return nil
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
