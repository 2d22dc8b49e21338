package transcript

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// noiseMarkers matches non-speech annotations such as [音乐], (环境音), （笑声）, 【掌声】.
var noiseMarkers = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|（[^）]*）|【[^】]*】`)

// Normalizer applies light polishing to recognized text. It never adds words:
// noise markers and repeated tokens are removed, nothing else changes.
type Normalizer struct {
	maxPhrase int
	minSingle int
	fillers   map[string]struct{}
}

// NewNormalizer builds a Normalizer from opts.
func NewNormalizer(opts Options) *Normalizer {
	fillers := make(map[string]struct{}, len(opts.Fillers))
	for _, f := range opts.Fillers {
		fillers[f] = struct{}{}
	}
	maxPhrase := opts.MaxRepeatTokens
	if maxPhrase < 1 {
		maxPhrase = 1
	}
	minSingle := opts.MinSingleRepeat
	if minSingle < 2 {
		minSingle = 2
	}
	return &Normalizer{
		maxPhrase: maxPhrase,
		minSingle: minSingle,
		fillers:   fillers,
	}
}

// Normalize cleans one segment. An empty Text in the result means the segment
// carried no speech and must be dropped downstream.
func (n *Normalizer) Normalize(seg Segment) NormalizedSegment {
	return NormalizedSegment{
		Text:    n.NormalizeText(seg.Text),
		StartMs: seg.StartMs,
		EndMs:   seg.EndMs,
	}
}

// NormalizeAll normalizes a whole sequence, keeping dropped entries in place.
func (n *Normalizer) NormalizeAll(segs []Segment) []NormalizedSegment {
	out := make([]NormalizedSegment, len(segs))
	for i, s := range segs {
		out[i] = n.Normalize(s)
	}
	return out
}

// NormalizeText is Normalize without timestamps.
func (n *Normalizer) NormalizeText(text string) string {
	text = norm.NFC.String(text)
	text = noiseMarkers.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	toks := tokenize(text)
	for {
		var changed bool
		toks, changed = n.collapseOnce(toks)
		if !changed {
			break
		}
	}

	if !slices.ContainsFunc(toks, token.hasContent) {
		return ""
	}
	return render(toks)
}

// collapseOnce walks the tokens left to right and keeps a single copy of any
// phrase that repeats immediately. Longer phrases are tried first.
func (n *Normalizer) collapseOnce(toks []token) ([]token, bool) {
	out := make([]token, 0, len(toks))
	changed := false
	for i := 0; i < len(toks); {
		skip := 0
		for size := min(n.maxPhrase, (len(toks)-i)/2); size >= 1; size-- {
			phrase := toks[i : i+size]
			if size > 1 && periodic(phrase) {
				continue
			}
			reps := repeats(toks, i, size)
			if reps < n.threshold(phrase) {
				continue
			}
			out = append(out, phrase...)
			skip = size * reps
			break
		}
		if skip == 0 {
			out = append(out, toks[i])
			i++
			continue
		}
		i += skip
		changed = true
	}
	return out, changed
}

func (n *Normalizer) threshold(phrase []token) int {
	if len(phrase) > 1 {
		return 2
	}
	t := phrase[0].text
	if _, ok := n.fillers[t]; ok {
		return 2
	}
	if r := []rune(t); len(r) == 1 && (isSentenceTerminal(r[0]) || isClausePunct(r[0])) {
		return 2
	}
	return n.minSingle
}

// repeats counts consecutive copies of toks[i:i+size] starting at i.
func repeats(toks []token, i, size int) int {
	count := 1
	for j := i + size; j+size <= len(toks); j += size {
		if !sameTokens(toks[i:i+size], toks[j:j+size]) {
			break
		}
		count++
	}
	return count
}

// periodic reports whether phrase is itself a repetition of a shorter unit.
func periodic(phrase []token) bool {
	for p := 1; p <= len(phrase)/2; p++ {
		if len(phrase)%p != 0 {
			continue
		}
		if repeats(phrase, 0, p)*p == len(phrase) {
			return true
		}
	}
	return false
}

func sameTokens(a, b []token) bool {
	for i := range a {
		if a[i].text != b[i].text {
			return false
		}
	}
	return true
}

type token struct {
	text  string
	space bool // whitespace preceded the token
}

func (t token) hasContent() bool {
	return strings.IndexFunc(t.text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

// tokenize turns every CJK rune and punctuation rune into its own token and
// keeps runs of Latin letters and digits together.
func tokenize(text string) []token {
	var (
		toks  []token
		word  strings.Builder
		space bool
	)
	flush := func() {
		if word.Len() > 0 {
			toks = append(toks, token{text: word.String(), space: space})
			word.Reset()
			space = false
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
			space = true
		case isWordRune(r):
			word.WriteRune(r)
		default:
			flush()
			toks = append(toks, token{text: string(r), space: space})
			space = false
		}
	}
	flush()
	return toks
}

// render rebuilds text from tokens. Whitespace survives only between
// non-CJK neighbours.
func render(toks []token) string {
	var b strings.Builder
	var prev rune
	for i, t := range toks {
		first := []rune(t.text)[0]
		if i > 0 && t.space && !isCJK(prev) && !isCJK(first) {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
		rs := []rune(t.text)
		prev = rs[len(rs)-1]
	}
	return b.String()
}
