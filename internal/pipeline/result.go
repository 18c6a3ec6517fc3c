package pipeline

// Status is the terminal state of a translation run.
type Status string

const (
	StatusSuccess        Status = "Success"
	StatusPartialSuccess Status = "Partial Success"
	StatusFailure        Status = "Failure"
	StatusSkipped        Status = "Skipped"
)

// Result contains structured outputs from Controller.Run.
type Result struct {
	Status     Status
	RunID      string
	OutputPath string
	// SourceLang is the resolved source language code, detected when the
	// configuration asked for auto.
	SourceLang string

	TotalBlocks      int
	TranslatedBlocks int
	TotalBatches     int
	FailedBatches    int
	PersistFailures  int
}

func statusFor(r Result) Status {
	switch {
	case r.TotalBlocks == 0:
		return StatusSkipped
	case r.TranslatedBlocks == 0:
		return StatusFailure
	case r.TranslatedBlocks == r.TotalBlocks && r.FailedBatches == 0:
		return StatusSuccess
	default:
		return StatusPartialSuccess
	}
}
