package transcript

// ParagraphAssembler merges normalized segments into timestamp-free prose.
type ParagraphAssembler struct {
	opts Options
}

// NewParagraphAssembler builds a ParagraphAssembler from opts.
func NewParagraphAssembler(opts Options) *ParagraphAssembler {
	return &ParagraphAssembler{opts: opts}
}

// sentenceUnit is one sentence carved out of a segment. Units cut from the
// same segment share its span, so the gap between them is zero.
type sentenceUnit struct {
	text    string
	startMs int64
	endMs   int64
}

// Assemble groups segments into paragraphs in source order. Empty input
// yields an empty result.
func (a *ParagraphAssembler) Assemble(segs []NormalizedSegment) []Paragraph {
	var units []sentenceUnit
	for _, s := range segs {
		if s.Dropped() {
			continue
		}
		for _, sentence := range splitSentences(s.Text) {
			units = append(units, sentenceUnit{text: sentence, startMs: s.StartMs, endMs: s.EndMs})
		}
	}

	var (
		paragraphs []Paragraph
		cur        string
		prev       sentenceUnit
	)
	flush := func() {
		if cur != "" {
			paragraphs = append(paragraphs, Paragraph{Text: cur})
		}
		cur = ""
	}

	for i, u := range units {
		if i > 0 {
			gap := max(u.startMs-prev.endMs, 0)
			pause := gap > a.opts.SentencePauseMs
			terminal := endsWithTerminal(cur)
			curLen := runeLen(cur)
			mark := ""
			if pause && !terminal {
				mark = a.opts.SentenceMark
			}

			switch {
			case gap > a.opts.ParagraphPauseMs:
				flush()
			case runeLen(joinText(cur+mark, u.text)) > a.opts.MaxParagraphChars:
				flush()
			case (terminal || pause) && a.opts.MinParagraphChars > 0 && curLen >= a.opts.MinParagraphChars:
				flush()
			default:
				cur += mark
			}
		}

		cur = joinText(cur, u.text)
		prev = u
	}
	flush()

	return paragraphs
}
