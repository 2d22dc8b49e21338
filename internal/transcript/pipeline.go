package transcript

import (
	"errors"
	"fmt"
	"sort"
)

// Pipeline normalizes a segment sequence once and feeds the same normalized
// slice to both assemblers. The assemblers never see each other's output.
type Pipeline struct {
	opts       Options
	normalizer *Normalizer
	paragraphs *ParagraphAssembler
	cues       *CueAssembler
}

// NewPipeline validates opts and wires the three stages.
func NewPipeline(opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transcript options: %w", err)
	}
	return &Pipeline{
		opts:       opts,
		normalizer: NewNormalizer(opts),
		paragraphs: NewParagraphAssembler(opts),
		cues:       NewCueAssembler(opts),
	}, nil
}

// Process turns one video's segments into prose paragraphs and subtitle cues.
// Malformed sequences (negative or decreasing start times) abort with an
// error; unrecognizable segments are dropped and listed in Result.Dropped.
// A segment that would produce a degenerate cue is dropped from the cues and
// listed as well, unless StrictSpans is set; the error is then returned along
// with the paragraphs.
func (p *Pipeline) Process(segs []Segment) (Result, error) {
	if err := ValidateSequence(segs); err != nil {
		return Result{}, err
	}

	var res Result
	normalized := p.normalizer.NormalizeAll(segs)
	for i, n := range normalized {
		if n.Dropped() {
			res.Dropped = append(res.Dropped, Anomaly{Index: i, Segment: segs[i], Reason: ReasonUnrecognizable})
		}
	}

	res.Paragraphs = p.Paragraphs(normalized)

	cueInput := make([]NormalizedSegment, len(normalized))
	copy(cueInput, normalized)
	for {
		cues, err := p.Cues(cueInput)
		if err == nil {
			res.Cues = cues
			sort.SliceStable(res.Dropped, func(i, j int) bool { return res.Dropped[i].Index < res.Dropped[j].Index })
			return res, nil
		}

		var dse *DegenerateSpanError
		if p.opts.StrictSpans || !errors.As(err, &dse) ||
			dse.Index < 0 || dse.Index >= len(cueInput) || cueInput[dse.Index].Dropped() {
			return res, err
		}
		res.Dropped = append(res.Dropped, Anomaly{Index: dse.Index, Segment: segs[dse.Index], Reason: ReasonDegenerateSpan})
		cueInput[dse.Index].Text = ""
	}
}

// Normalize exposes the normalizer stage on its own.
func (p *Pipeline) Normalize(segs []Segment) []NormalizedSegment {
	return p.normalizer.NormalizeAll(segs)
}

// Paragraphs runs only the paragraph assembler.
func (p *Pipeline) Paragraphs(segs []NormalizedSegment) []Paragraph {
	return p.paragraphs.Assemble(segs)
}

// Cues runs only the subtitle assembler.
func (p *Pipeline) Cues(segs []NormalizedSegment) ([]Cue, error) {
	return p.cues.Assemble(segs)
}

// ValidateSequence checks the systemic invariants of a recognizer output:
// timestamps are non-negative and start times never decrease.
func ValidateSequence(segs []Segment) error {
	for i, s := range segs {
		if s.StartMs < 0 || s.EndMs < 0 {
			return fmt.Errorf("%w: segment %d [%d, %d]", ErrInvalidTimestamp, i, s.StartMs, s.EndMs)
		}
		if i > 0 && s.StartMs < segs[i-1].StartMs {
			return fmt.Errorf("%w: segment %d starts at %dms after %dms", ErrUnorderedSegments, i, s.StartMs, segs[i-1].StartMs)
		}
	}
	return nil
}
