package transcript

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// CueAssembler turns normalized segments into timestamped, line-wrapped cues.
type CueAssembler struct {
	opts Options
}

// NewCueAssembler builds a CueAssembler from opts.
func NewCueAssembler(opts Options) *CueAssembler {
	return &CueAssembler{opts: opts}
}

// span is a piece of text on its way to becoming a cue. index points back at
// the input segment it came from.
type span struct {
	text    string
	startMs int64
	endMs   int64
	index   int
}

// Assemble splits long segments, merges short ones, wraps every cue into at
// most two lines and numbers them 1..N. A cue that ends up with a
// non-positive duration fails the whole call with a *DegenerateSpanError.
func (a *CueAssembler) Assemble(segs []NormalizedSegment) ([]Cue, error) {
	var spans []span
	for i, s := range segs {
		if s.Dropped() {
			continue
		}
		if n := len(spans); n > 0 && s.StartMs < spans[n-1].startMs {
			return nil, fmt.Errorf("%w: segment %d starts at %dms after %dms", ErrUnorderedSegments, i, s.StartMs, spans[n-1].startMs)
		}
		spans = append(spans, span{text: s.Text, startMs: s.StartMs, endMs: s.EndMs, index: i})
	}
	spans = repairOverlaps(spans)

	var pieces []span
	for _, s := range spans {
		parts, err := a.split(s)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, parts...)
	}
	merged := a.merge(pieces)

	cues := make([]Cue, 0, len(merged))
	for _, m := range merged {
		if m.endMs <= m.startMs {
			return nil, &DegenerateSpanError{Index: m.index, StartMs: m.startMs, EndMs: m.endMs}
		}
		cue := Cue{
			Index:   len(cues) + 1,
			StartMs: m.startMs,
			EndMs:   m.endMs,
			Lines:   wrapLines(m.text, a.opts.MaxLineChars),
		}
		if err := checkBudget(cue, a.opts.MaxLineChars); err != nil {
			return nil, err
		}
		cues = append(cues, cue)
	}
	return cues, nil
}

// repairOverlaps makes spans disjoint. A span that starts inside its
// predecessor takes over the predecessor's tail; identical starts coalesce.
func repairOverlaps(spans []span) []span {
	out := make([]span, 0, len(spans))
	for _, s := range spans {
		if n := len(out); n > 0 && s.startMs < out[n-1].endMs {
			prev := &out[n-1]
			if s.startMs == prev.startMs {
				prev.text = joinText(prev.text, s.text)
				prev.endMs = max(prev.endMs, s.endMs)
				continue
			}
			s.endMs = max(s.endMs, prev.endMs)
			prev.endMs = s.startMs
		}
		out = append(out, s)
	}
	return out
}

// split partitions a span whose text exceeds the cue budget. Time is shared
// out in proportion to rune offsets so the pieces tile [start, end] exactly.
// A span shorter than one millisecond per piece cannot be split without a
// zero-length cue and is reported as degenerate.
func (a *CueAssembler) split(s span) ([]span, error) {
	rs := []rune(s.text)
	var cuts []int
	a.collectCuts(rs, 0, len(rs), &cuts)
	if len(cuts) == 0 {
		return []span{s}, nil
	}
	if s.endMs-s.startMs < int64(len(cuts)+1) {
		return nil, &DegenerateSpanError{Index: s.index, StartMs: s.startMs, EndMs: s.endMs}
	}

	bounds := allocate(s.startMs, s.endMs, cuts, len(rs))
	offsets := append(append([]int{0}, cuts...), len(rs))
	pieces := make([]span, 0, len(cuts)+1)
	for i := 0; i+1 < len(offsets); i++ {
		text := strings.TrimSpace(string(rs[offsets[i]:offsets[i+1]]))
		if text == "" {
			continue
		}
		pieces = append(pieces, span{text: text, startMs: bounds[i], endMs: bounds[i+1], index: s.index})
	}
	return pieces, nil
}

func (a *CueAssembler) collectCuts(rs []rune, lo, hi int, cuts *[]int) {
	budget := a.opts.CueBudget()
	if runeLen(strings.TrimSpace(string(rs[lo:hi]))) <= budget {
		return
	}
	k := lo + chooseCut(rs[lo:hi], budget)
	a.collectCuts(rs, lo, k, cuts)
	*cuts = append(*cuts, k)
	a.collectCuts(rs, k, hi, cuts)
}

// chooseCut picks the punctuation cut nearest the midpoint of rs; when two are
// equally near the earlier one wins. Without punctuation it falls back to the
// last space inside the budget, then to the budget itself.
func chooseCut(rs []rune, budget int) int {
	best, bestDist := -1, 0
	for _, k := range punctCuts(rs) {
		dist := absInt(2*k - len(rs))
		if best < 0 || dist < bestDist {
			best, bestDist = k, dist
		}
	}
	if best > 0 {
		return best
	}
	for i := min(budget, len(rs)-1); i > 0; i-- {
		if unicode.IsSpace(rs[i]) {
			return i
		}
	}
	return budget
}

// allocate maps rune offsets to timestamps. The span must be at least 1ms
// per piece; boundaries are then strictly increasing.
func allocate(startMs, endMs int64, cuts []int, total int) []int64 {
	dur := endMs - startMs
	bounds := make([]int64, len(cuts)+2)
	bounds[0] = startMs
	for i, k := range cuts {
		bounds[i+1] = startMs + int64(math.Round(float64(dur)*float64(k)/float64(total)))
	}
	bounds[len(bounds)-1] = endMs

	pieces := len(bounds) - 1
	for i := 1; i < pieces; i++ {
		lo := bounds[i-1] + 1
		hi := endMs - int64(pieces-i)
		bounds[i] = min(max(bounds[i], lo), hi)
	}
	return bounds
}

// merge folds a short cue into its successor when the pause between them is
// short and the result still fits the budget.
func (a *CueAssembler) merge(pieces []span) []span {
	out := make([]span, 0, len(pieces))
	for _, p := range pieces {
		if n := len(out); n > 0 {
			last := &out[n-1]
			joined := joinText(last.text, p.text)
			if runeLen(last.text) < a.opts.MinCueChars &&
				p.startMs-last.endMs < a.opts.SentencePauseMs &&
				runeLen(joined) <= a.opts.CueBudget() {
				last.text = joined
				last.endMs = p.endMs
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func checkBudget(c Cue, maxLine int) error {
	if len(c.Lines) == 0 || len(c.Lines) > 2 {
		return fmt.Errorf("%w: cue %d has %d lines", ErrBudgetViolation, c.Index, len(c.Lines))
	}
	for _, line := range c.Lines {
		if n := runeLen(line); n > maxLine {
			return fmt.Errorf("%w: cue %d line %q has %d chars, limit %d", ErrBudgetViolation, c.Index, line, n, maxLine)
		}
	}
	return nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
