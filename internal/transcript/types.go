package transcript

import "strings"

// Segment is one timestamped unit of recognized text as returned by the recognizer.
type Segment struct {
	Text    string `json:"text"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

// NormalizedSegment is a Segment whose text went through the normalizer.
// Timestamps are never changed by normalization.
type NormalizedSegment struct {
	Text    string
	StartMs int64
	EndMs   int64
}

// Dropped reports whether normalization left nothing worth keeping.
func (s NormalizedSegment) Dropped() bool {
	return s.Text == ""
}

// Paragraph is a timestamp-free unit of prose.
type Paragraph struct {
	Text string
}

// Cue is one subtitle display unit.
type Cue struct {
	Index   int
	StartMs int64
	EndMs   int64
	Lines   []string
}

// Text returns the cue lines joined without the line break.
func (c Cue) Text() string {
	return joinText(c.Lines...)
}

// Anomaly records a segment that was recovered locally instead of failing the video.
type Anomaly struct {
	Index   int
	Segment Segment
	Reason  string
}

const (
	ReasonUnrecognizable = "unrecognizable"
	ReasonDegenerateSpan = "degenerate_span"
)

// Result is everything produced from one video's segment sequence.
type Result struct {
	Paragraphs []Paragraph
	Cues       []Cue
	Dropped    []Anomaly
}

// ProseText joins paragraphs with a blank line, ready for a document body.
func (r Result) ProseText() string {
	return ProseText(r.Paragraphs)
}

// ProseText joins paragraphs with a blank line.
func ProseText(paragraphs []Paragraph) string {
	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n\n")
}

// Record is the per-video input of a batch summary.
type Record struct {
	VideoID      string
	ProseText    string
	SubtitleText string
}

// Record returns the aggregate record for videoID. SubtitleText holds the
// cue texts in order, one cue per line, without timing.
func (r Result) Record(videoID string) Record {
	lines := make([]string, 0, len(r.Cues))
	for _, c := range r.Cues {
		lines = append(lines, c.Text())
	}
	return Record{
		VideoID:      videoID,
		ProseText:    r.ProseText(),
		SubtitleText: strings.Join(lines, "\n"),
	}
}
