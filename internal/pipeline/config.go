package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/language"
)

// Config holds everything a translation run needs. It is passed in once at
// construction; nothing is read from globals afterwards.
type Config struct {
	// IO Paths
	InputPath  string
	OutputPath string

	// Model
	Model        string
	SystemPrompt string // template with {source} and {target} placeholders
	Temperature  float32

	// Batching
	MaxBatchSize    int
	InterBatchDelay time.Duration

	// Languages. SourceLang may be language.Auto.
	SourceLang string
	TargetLang string

	Overwrite bool // overwrite an existing output without asking

	// Callbacks
	// OnProgress receives every state transition of the run.
	OnProgress func(Progress)

	// OnConfirmOverwrite is called when the output file exists and Overwrite
	// is false. Returning false skips the run.
	OnConfirmOverwrite func(path string) bool
}

const (
	DefaultMaxBatchSize    = 5
	DefaultInterBatchDelay = time.Second
	DefaultTemperature     = 0.3
	DefaultSourceLang      = language.Auto
	DefaultTargetLang      = "en"

	MaxBatchSizeLimit = 200
	MaxTemperature    = 2.0
	MaxBatchDelay     = 10 * time.Minute
)

// DefaultConfig returns a Config with every tunable set to its default.
func DefaultConfig() Config {
	return Config{
		MaxBatchSize:    DefaultMaxBatchSize,
		InterBatchDelay: DefaultInterBatchDelay,
		Temperature:     DefaultTemperature,
		SourceLang:      DefaultSourceLang,
		TargetLang:      DefaultTargetLang,
	}
}

// Normalize applies safe bounds to config values and returns any adjustments.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	c.InputPath = strings.TrimSpace(c.InputPath)
	c.OutputPath = strings.TrimSpace(c.OutputPath)
	c.Model = strings.TrimSpace(c.Model)
	if c.MaxBatchSize > MaxBatchSizeLimit {
		notes = append(notes, fmt.Sprintf("batch-size clamped from %d to %d", c.MaxBatchSize, MaxBatchSizeLimit))
		c.MaxBatchSize = MaxBatchSizeLimit
	}
	if c.InterBatchDelay > MaxBatchDelay {
		notes = append(notes, fmt.Sprintf("delay clamped from %s to %s", c.InterBatchDelay, MaxBatchDelay))
		c.InterBatchDelay = MaxBatchDelay
	}
	if strings.TrimSpace(c.SourceLang) == "" {
		c.SourceLang = DefaultSourceLang
	}
	if strings.TrimSpace(c.TargetLang) == "" {
		c.TargetLang = DefaultTargetLang
	}
	return c, notes
}

// Validate checks if the configuration is valid. Every error it returns is
// of kind apperrors.KindConfig.
func (c Config) Validate() error {
	if c.MaxBatchSize < 1 {
		return configError(fmt.Sprintf("Batch size must be at least 1 (got %d).", c.MaxBatchSize))
	}
	if c.InterBatchDelay < 0 {
		return configError(fmt.Sprintf("Delay must not be negative (got %s).", c.InterBatchDelay))
	}
	if c.Temperature < 0 || c.Temperature > MaxTemperature {
		return configError(fmt.Sprintf("Temperature must be between 0 and %.1f (got %.2f).", MaxTemperature, c.Temperature))
	}
	if c.Model == "" {
		return configError("Model name is required.")
	}
	if c.InputPath == "" {
		return configError("Input path is required.")
	}
	if c.OutputPath == "" {
		return configError("Output path is required.")
	}
	if err := checkDistinctPaths(c.InputPath, c.OutputPath); err != nil {
		return err
	}

	tgt, err := language.Lookup(c.TargetLang)
	if err != nil {
		return apperrors.New(apperrors.KindConfig, fmt.Sprintf("Unsupported target language: %s", c.TargetLang), err)
	}
	if !strings.EqualFold(c.SourceLang, language.Auto) {
		src, err := language.Lookup(c.SourceLang)
		if err != nil {
			return apperrors.New(apperrors.KindConfig, fmt.Sprintf("Unsupported source language: %s", c.SourceLang), err)
		}
		if language.SameBase(src, tgt) {
			return configError(fmt.Sprintf("Source and target languages must be different (%s).", src.Code))
		}
	}
	return nil
}

func checkDistinctPaths(in, out string) error {
	absIn, err := filepath.Abs(in)
	if err != nil {
		return apperrors.New(apperrors.KindConfig, "Input path could not be resolved.", err)
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return apperrors.New(apperrors.KindConfig, "Output path could not be resolved.", err)
	}
	if absIn == absOut {
		return configError(fmt.Sprintf("Input and output files are the same (%s).", absIn))
	}
	inInfo, err := os.Stat(absIn)
	if err != nil {
		return nil
	}
	if outInfo, err := os.Stat(absOut); err == nil && os.SameFile(inInfo, outInfo) {
		return configError(fmt.Sprintf("Input and output files are the same (%s).", absIn))
	}
	return nil
}

func configError(msg string) error {
	return apperrors.New(apperrors.KindConfig, msg, errors.New(msg))
}
