package transcript

import (
	"errors"
	"fmt"
)

// Options holds every threshold and budget used by the normalizer and assemblers.
type Options struct {
	// SentencePauseMs is the gap above which a sentence boundary fires.
	SentencePauseMs int64
	// ParagraphPauseMs is the gap above which a new paragraph starts. Must be >= SentencePauseMs.
	ParagraphPauseMs int64
	// MaxParagraphChars forces a paragraph boundary once exceeded.
	MaxParagraphChars int
	// MinParagraphChars lets a sentence boundary close a paragraph once it is this long.
	// Zero or less keeps sentences together until a pause or length boundary.
	MinParagraphChars int

	// MaxLineChars is the per-line limit; a cue carries at most two lines.
	MaxLineChars int
	// MinCueChars is the length under which a cue merges with its successor.
	MinCueChars int

	// MaxRepeatTokens is the longest phrase checked by stutter collapse.
	MaxRepeatTokens int
	// MinSingleRepeat is how many times a single token must repeat before it collapses.
	MinSingleRepeat int
	// Fillers collapse at two occurrences regardless of MinSingleRepeat.
	Fillers []string

	// SentenceMark closes a sentence that ended on a pause without punctuation.
	SentenceMark string

	// StrictSpans makes the pipeline fail the whole video on a degenerate span.
	// Otherwise the offending segment is left out of the cues and reported
	// as an anomaly.
	StrictSpans bool
}

// DefaultOptions returns the defaults calibrated for Mandarin lecture recordings.
func DefaultOptions() Options {
	return Options{
		SentencePauseMs:   1500,
		ParagraphPauseMs:  3000,
		MaxParagraphChars: 300,
		MinParagraphChars: 80,
		MaxLineChars:      16,
		MinCueChars:       6,
		MaxRepeatTokens:   4,
		MinSingleRepeat:   3,
		Fillers:           []string{"嗯", "啊", "呃", "额", "哦"},
		SentenceMark:      "。",
	}
}

// CueBudget is the character budget of a whole cue.
func (o Options) CueBudget() int {
	return 2 * o.MaxLineChars
}

func (o Options) Validate() error {
	var errs []error
	if o.SentencePauseMs < 0 {
		errs = append(errs, fmt.Errorf("sentence pause must not be negative, got %d", o.SentencePauseMs))
	}
	if o.ParagraphPauseMs < o.SentencePauseMs {
		errs = append(errs, fmt.Errorf("paragraph pause %dms is below sentence pause %dms", o.ParagraphPauseMs, o.SentencePauseMs))
	}
	if o.MaxParagraphChars <= 0 {
		errs = append(errs, fmt.Errorf("max paragraph chars must be positive, got %d", o.MaxParagraphChars))
	}
	if o.MaxLineChars <= 0 {
		errs = append(errs, fmt.Errorf("max line chars must be positive, got %d", o.MaxLineChars))
	}
	if o.MinCueChars < 0 {
		errs = append(errs, fmt.Errorf("min cue chars must not be negative, got %d", o.MinCueChars))
	}
	if o.MaxRepeatTokens < 1 {
		errs = append(errs, fmt.Errorf("max repeat tokens must be at least 1, got %d", o.MaxRepeatTokens))
	}
	if o.MinSingleRepeat < 2 {
		errs = append(errs, fmt.Errorf("min single repeat must be at least 2, got %d", o.MinSingleRepeat))
	}
	return errors.Join(errs...)
}
