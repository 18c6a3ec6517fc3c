package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/chat"
	"github.com/oukeidos/batchsub/internal/chunker"
	"github.com/oukeidos/batchsub/internal/files"
	"github.com/oukeidos/batchsub/internal/language"
	"github.com/oukeidos/batchsub/internal/logger"
	"github.com/oukeidos/batchsub/internal/srt"
	"github.com/oukeidos/batchsub/internal/translator"
)

// Controller runs one file through parse, plan, and the per-batch
// translate/merge/persist loop. It is not safe for concurrent use and a
// Controller runs at most once.
type Controller struct {
	cfg       Config
	completer chat.Completer
	runID     string
	log       *slog.Logger

	state State
	// accumulated is append-only during a run and owned by Run.
	accumulated []srt.Block
}

// New validates cfg and returns a Controller that sends batches through
// completer.
func New(cfg Config, completer chat.Completer) (*Controller, error) {
	cfg, notes := cfg.Normalize()
	runID := uuid.NewString()
	log := logger.With(logger.RunIDKey, runID)
	for _, note := range notes {
		log.Warn("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if completer == nil {
		return nil, apperrors.Config(fmt.Errorf("pipeline: completer is nil"))
	}
	return &Controller{
		cfg:       cfg,
		completer: completer,
		runID:     runID,
		log:       log,
		state:     StateIdle,
	}, nil
}

// RunID identifies this run in logs.
func (c *Controller) RunID() string { return c.runID }

// State returns the current state.
func (c *Controller) State() State { return c.state }

func (c *Controller) emit(p Progress) {
	c.state = p.State
	if c.cfg.OnProgress != nil {
		c.cfg.OnProgress(p)
	}
}

// Run executes the pipeline. Only configuration and input read failures,
// cancellation, and a failed final write are returned as errors; failures of
// single batches are counted in the Result.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	if c.state != StateIdle {
		return Result{}, apperrors.Config(fmt.Errorf("pipeline: controller already ran"))
	}
	res := Result{RunID: c.runID, OutputPath: c.cfg.OutputPath}

	if err := files.RejectSymlinkPath(c.cfg.OutputPath); err != nil {
		return c.abort(res, apperrors.New(apperrors.KindConfig, "Output path must not be a symlink.", err))
	}
	if skip := c.confirmOverwrite(); skip {
		res.Status = StatusSkipped
		c.emit(Progress{State: StateFinalized, Batch: -1})
		return res, nil
	}

	// Parsing
	c.emit(Progress{State: StateParsing, Batch: -1})
	blocks, err := srt.Load(c.cfg.InputPath)
	if err != nil {
		c.log.Error("Failed to read subtitles", "path", c.cfg.InputPath, "error", err)
		return c.abort(res, err)
	}
	res.TotalBlocks = len(blocks)
	if len(blocks) == 0 {
		c.log.Info("No subtitle blocks found, nothing to translate", "path", c.cfg.InputPath)
		res.Status = StatusSkipped
		c.emit(Progress{State: StateFinalized, Batch: -1})
		return res, nil
	}
	c.log.Info("Loaded subtitles", "count", len(blocks), "path", c.cfg.InputPath)

	// Planning
	c.emit(Progress{State: StatePlanning, Batch: -1, TotalBlocks: len(blocks)})
	chunks, err := chunker.SplitIntoChunks(blocks, c.cfg.MaxBatchSize)
	if err != nil {
		return c.abort(res, err)
	}
	res.TotalBatches = len(chunks)

	src, tgt := c.resolveLanguages(blocks)
	res.SourceLang = src.Code
	tr, err := translator.NewTranslator(c.completer, translator.Options{
		Model:        c.cfg.Model,
		SystemPrompt: translator.SystemPrompt(c.cfg.SystemPrompt, src.Name, tgt.Name),
		Temperature:  c.cfg.Temperature,
	})
	if err != nil {
		return c.abort(res, err)
	}
	c.log.Info("Translation planned",
		"batches", len(chunks),
		"batch_size", c.cfg.MaxBatchSize,
		"source", src.Code,
		"target", tgt.Code,
		"model", c.cfg.Model,
	)

	c.accumulated = make([]srt.Block, 0, len(blocks))
	var lastPersistErr error
	var runErr error
	done := 0
	for i, ch := range chunks {
		if i > 0 {
			if err := wait(ctx, c.cfg.InterBatchDelay); err != nil {
				runErr = err
				break
			}
		} else if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		base := Progress{Batch: i, TotalBatches: len(chunks), TotalBlocks: len(blocks)}

		base.State = StateTranslating
		base.Translated = srt.Translated(c.accumulated)
		c.emit(base)
		out := tr.TranslateBatch(ctx, ch.Blocks)
		if out.Failed() {
			res.FailedBatches++
		}

		base.State = StateMerging
		base.Err = out.Err
		c.accumulated = append(c.accumulated, translator.Merge(ch.Blocks, out.Translations)...)
		base.Translated = srt.Translated(c.accumulated)
		c.emit(base)

		base.State = StatePersisting
		base.Err = nil
		lastPersistErr = srt.Save(c.cfg.OutputPath, c.accumulated)
		if lastPersistErr != nil {
			res.PersistFailures++
			base.Err = lastPersistErr
			c.log.Error("Failed to save progress", "path", c.cfg.OutputPath, "batch", i+1, "error", lastPersistErr)
		}
		c.emit(base)
		done++
	}

	// A cancel during the last call ends the loop without a wait to notice it.
	if runErr == nil {
		runErr = ctx.Err()
	}

	res.TranslatedBlocks = srt.Translated(c.accumulated)
	res.Status = statusFor(res)

	switch {
	case runErr != nil:
		c.log.Warn("Run interrupted", "done_batches", done, "total_batches", len(chunks))
		runErr = apperrors.New(apperrors.KindTransient, "Translation interrupted.", runErr)
	case lastPersistErr != nil:
		runErr = lastPersistErr
	}
	if runErr == nil && res.TranslatedBlocks > 0 {
		c.verifyOutput()
	}

	c.log.Info("Translation finished",
		"status", string(res.Status),
		"done", res.TranslatedBlocks,
		"total", res.TotalBlocks,
		"failed_batches", res.FailedBatches,
		"persist_failures", res.PersistFailures,
	)
	c.emit(Progress{
		State:        StateFinalized,
		Batch:        -1,
		TotalBatches: len(chunks),
		Translated:   res.TranslatedBlocks,
		TotalBlocks:  res.TotalBlocks,
		Err:          runErr,
	})
	return res, runErr
}

func (c *Controller) abort(res Result, err error) (Result, error) {
	res.Status = StatusFailure
	c.emit(Progress{State: StateFinalized, Batch: -1, Err: err})
	return res, err
}

// confirmOverwrite reports whether the run must be skipped because the
// output exists and overwriting was declined.
func (c *Controller) confirmOverwrite() bool {
	if _, err := os.Stat(c.cfg.OutputPath); err != nil {
		return false
	}
	overwrite := c.cfg.Overwrite
	if !overwrite && c.cfg.OnConfirmOverwrite != nil {
		overwrite = c.cfg.OnConfirmOverwrite(c.cfg.OutputPath)
	}
	if !overwrite {
		c.log.Info("Output file exists. Aborted by user.", "path", c.cfg.OutputPath)
		return true
	}
	c.log.Info("Overwriting output file", "path", c.cfg.OutputPath)
	return false
}

func (c *Controller) resolveLanguages(blocks []srt.Block) (language.Language, language.Language) {
	tgt, _ := language.Lookup(c.cfg.TargetLang)
	if !strings.EqualFold(c.cfg.SourceLang, language.Auto) {
		src, _ := language.Lookup(c.cfg.SourceLang)
		return src, tgt
	}
	texts := make([]string, len(blocks))
	for i, b := range blocks {
		texts[i] = b.Original
	}
	src, ok := language.Detect(texts)
	if !ok {
		c.log.Warn("Source language could not be detected")
		return language.Language{}, tgt
	}
	c.log.Info("Detected source language", "language", src.String())
	return src, tgt
}

// verifyOutput re-reads the written file with an independent parser.
func (c *Controller) verifyOutput() {
	rep, err := srt.Inspect(c.cfg.OutputPath)
	if err != nil {
		c.log.Warn("Output could not be re-read", "path", c.cfg.OutputPath, "error", err)
		return
	}
	c.log.Debug("Output verified",
		"items", rep.Items,
		"first", srt.FormatTimestamp(rep.First),
		"last", srt.FormatTimestamp(rep.Last),
		"longest_line", rep.LongestLine,
	)
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
