package screener

import (
	"errors"
	"fmt"

	"BreakoutRadar/internal/calculator"
)

var (
	// ErrAcquisition wraps every data-source failure for a symbol.
	ErrAcquisition = errors.New("acquisition failure")
	// ErrDataInsufficient means the series was too short to score.
	ErrDataInsufficient = calculator.ErrDataInsufficient
	// ErrNoResults means no symbol in the run produced a record.
	ErrNoResults = errors.New("no results")
)

// Stage names the pipeline step a symbol failed in.
type Stage string

const (
	StageAcquire    Stage = "acquire"
	StageIndicators Stage = "indicators"
	StageScore      Stage = "score"
)

// SymbolFailure is the diagnostic recorded for a skipped symbol.
type SymbolFailure struct {
	Symbol string
	Stage  Stage
	Err    error
}

func (f *SymbolFailure) Error() string {
	return fmt.Sprintf("%s (%s): %v", f.Symbol, f.Stage, f.Err)
}

func (f *SymbolFailure) Unwrap() error { return f.Err }
