package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/config"
	"github.com/oukeidos/batchsub/internal/logger"
	"github.com/oukeidos/batchsub/internal/pipeline"
	"github.com/oukeidos/batchsub/internal/prompt"
	"github.com/oukeidos/batchsub/internal/srt"
	"github.com/spf13/cobra"
)

type translateOptions struct {
	configPath  string
	envFile     string
	provider    string
	modelName   string
	baseURL     string
	promptFile  string
	source      string
	target      string
	batchSize   int
	delay       time.Duration
	temperature float64
	yes         bool
	logFilePath string
	logLevel    string
	allowEnv    bool
	debug       bool
}

func newTranslateCmd() *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate <input.srt> [output.srt]",
		Short: "Translate a subtitle file batch by batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				_ = cmd.Usage()
				return fmt.Errorf("input file is required")
			}
			return runTranslate(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addTranslateFlags(cmd, &opts)
	return cmd
}

func addTranslateFlags(cmd *cobra.Command, opts *translateOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Config file (default ./batchsub.yaml or ~/.config/batchsub/batchsub.yaml)")
	f.StringVar(&opts.envFile, "env-file", "", "Dotenv file to load (default .env if present)")
	f.StringVar(&opts.provider, "provider", config.ProviderOpenAI, "Chat backend: openai (any OpenAI-compatible endpoint) or gemini")
	f.StringVar(&opts.modelName, "model", "", "Model name (default deepseek-chat for openai, gemini-2.0-flash for gemini)")
	f.StringVar(&opts.baseURL, "base-url", "", "OpenAI-compatible endpoint root (default https://api.deepseek.com)")
	f.StringVar(&opts.promptFile, "prompt-file", "", "File holding the system prompt template ({source} and {target} are expanded)")
	f.StringVar(&opts.source, "source", pipeline.DefaultSourceLang, "Source language code, or auto to detect")
	f.StringVar(&opts.target, "target", pipeline.DefaultTargetLang, "Target language code")
	f.IntVar(&opts.batchSize, "batch-size", pipeline.DefaultMaxBatchSize, "Subtitle blocks per request")
	f.DurationVar(&opts.delay, "delay", pipeline.DefaultInterBatchDelay, "Pause between requests")
	f.Float64Var(&opts.temperature, "temperature", pipeline.DefaultTemperature, "Sampling temperature")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Overwrite output file without asking")
	f.StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading API key from environment variables")
	f.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

func runTranslate(cmd *cobra.Command, args []string, opts *translateOptions) error {
	if len(args) < 1 {
		return fmt.Errorf("input file is required")
	}
	if len(args) > 2 {
		fmt.Fprintf(os.Stderr, "Warning: expected at most 2 arguments but got %d. Did you forget quotes around file paths?\n", len(args))
	}

	cfg, err := config.Load(config.Options{
		ConfigFile: opts.configPath,
		EnvFile:    opts.envFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.LogLevel, opts.debug, cfg.LogFile); err != nil {
		return err
	}

	inputPath := args[0]
	outputPath := srt.GenerateOutputPath(inputPath, cfg.Target)
	if len(args) >= 2 {
		outputPath = args[1]
	}
	if err := validateSubtitlePathExtensions(inputPath, outputPath); err != nil {
		return err
	}

	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}

	apiKey, source, err := resolveAPIKey(cfg.Provider, cfg.APIKey, opts.allowEnv)
	if err != nil {
		return err
	}
	logger.Info("Using API Key", "provider", cfg.Provider, "source", string(source))

	ctx, stop := signalContext()
	defer stop()

	completer, err := newCompleter(ctx, cfg, apiKey)
	if err != nil {
		return err
	}

	pcfg := pipeline.Config{
		InputPath:       inputPath,
		OutputPath:      outputPath,
		Model:           cfg.Model,
		SystemPrompt:    cfg.SystemPrompt,
		Temperature:     float32(cfg.Temperature),
		MaxBatchSize:    cfg.BatchSize,
		InterBatchDelay: cfg.Delay,
		SourceLang:      cfg.Source,
		TargetLang:      cfg.Target,
		Overwrite:       opts.yes,
		OnProgress:      logProgress,
		OnConfirmOverwrite: func(path string) bool {
			confirmed, err := prompt.DefaultConfirmer().ConfirmOverwrite(path, opts.yes)
			if err != nil {
				logger.Error("Overwrite confirmation failed", "error", err)
				return false
			}
			return confirmed
		},
	}

	ctrl, err := pipeline.New(pcfg, completer)
	if err != nil {
		return err
	}
	startTime := time.Now()
	result, err := ctrl.Run(ctx)
	printSummary(cmd, result, time.Since(startTime))

	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Translation canceled", "output", result.OutputPath)
			return nil
		}
		return fmt.Errorf("%s (output: %s)", apperrors.PublicMessage(err), result.OutputPath)
	}
	if err := translationStatusError(result); err != nil {
		return err
	}
	if result.Status != pipeline.StatusSkipped {
		fmt.Fprintf(cmd.OutOrStdout(), "completed, output at %s\n", result.OutputPath)
	}
	return nil
}

func logProgress(p pipeline.Progress) {
	switch p.State {
	case pipeline.StateMerging:
		if p.Err != nil {
			logger.Warn("Batch failed", "batch", p.Batch+1, "total", p.TotalBatches, "error", apperrors.PublicMessage(p.Err))
		}
	case pipeline.StatePersisting:
		if p.Err == nil {
			logger.Info("Batch saved", "batch", p.Batch+1, "total", p.TotalBatches, "done", p.Translated, "blocks", p.TotalBlocks)
		}
	}
}

func printSummary(cmd *cobra.Command, r pipeline.Result, d time.Duration) {
	if r.TotalBlocks == 0 {
		return
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "\n--- Run Summary ---")
	fmt.Fprintf(out, "Status: %s\n", r.Status)
	fmt.Fprintf(out, "Time: %s\n", d.Round(time.Millisecond))
	fmt.Fprintf(out, "Blocks: %d/%d translated\n", r.TranslatedBlocks, r.TotalBlocks)
	fmt.Fprintf(out, "Batches: %d (%d failed)\n", r.TotalBatches, r.FailedBatches)
	if r.PersistFailures > 0 {
		fmt.Fprintf(out, "Write failures: %d\n", r.PersistFailures)
	}
	if r.SourceLang != "" {
		fmt.Fprintf(out, "Source language: %s\n", r.SourceLang)
	}
}

// translationStatusError fails the command only when nothing was translated.
// Partial results are on disk and reported in the summary.
func translationStatusError(result pipeline.Result) error {
	switch result.Status {
	case pipeline.StatusSuccess, pipeline.StatusPartialSuccess, pipeline.StatusSkipped:
		return nil
	case pipeline.StatusFailure:
		return fmt.Errorf("translation finished with status: %s (no block was translated, output: %s)", result.Status, result.OutputPath)
	default:
		return fmt.Errorf("translation finished with unknown status: %q", result.Status)
	}
}

var supportedSubtitleExtensions = map[string]struct{}{
	".srt": {},
}

const supportedSubtitleExtensionsLabel = ".srt"

func validateSubtitlePathExtensions(inputPath, outputPath string) error {
	if err := validateSubtitleExtension("input", inputPath); err != nil {
		return err
	}
	if err := validateSubtitleExtension("output", outputPath); err != nil {
		return err
	}
	return nil
}

func validateSubtitleExtension(kind, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedSubtitleExtensions[ext]; ok {
		return nil
	}
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Errorf("unsupported %s extension %q (supported: %s)", kind, ext, supportedSubtitleExtensionsLabel)
}
