package transcript

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateSpan is matched by every *DegenerateSpanError.
	ErrDegenerateSpan = errors.New("degenerate span")

	// ErrBudgetViolation means the cue assembler produced a line over the limit.
	// It is a defect in the assembler, never a property of the input.
	ErrBudgetViolation = errors.New("subtitle line exceeds budget")

	// ErrUnorderedSegments is returned when start times go backwards.
	ErrUnorderedSegments = errors.New("segments are not ordered by start time")

	// ErrInvalidTimestamp is returned for negative timestamps.
	ErrInvalidTimestamp = errors.New("negative segment timestamp")
)

// DegenerateSpanError reports a cue or segment whose duration is not positive.
type DegenerateSpanError struct {
	// Index is the position of the offending segment in the assembler input.
	Index   int
	StartMs int64
	EndMs   int64
}

func (e *DegenerateSpanError) Error() string {
	return fmt.Sprintf("degenerate span at segment %d: [%d, %d]", e.Index, e.StartMs, e.EndMs)
}

func (e *DegenerateSpanError) Is(target error) bool {
	return target == ErrDegenerateSpan
}
