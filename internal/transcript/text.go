package transcript

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

// isWordRune reports letters and digits of space-separated scripts.
func isWordRune(r rune) bool {
	return (unicode.IsLetter(r) || unicode.IsDigit(r)) && !isCJK(r)
}

func isSentenceTerminal(r rune) bool {
	switch r {
	case '。', '！', '？', '!', '?':
		return true
	}
	return false
}

func isClausePunct(r rune) bool {
	switch r {
	case '，', '、', '；', '：', ',', ';', ':':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '”', '’', '」', '』', '）', '》', ')', '"', '\'':
		return true
	}
	return false
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// needsSpace reports whether two fragments of a space-separated script meet at a and b.
func needsSpace(a, b rune) bool {
	if !isWordRune(b) {
		return false
	}
	if isWordRune(a) {
		return true
	}
	switch a {
	case ',', '.', ';', ':', '!', '?':
		return true
	}
	return false
}

// joinText concatenates fragments. CJK text is glued; a single space is kept
// only where two Latin words would otherwise run together.
func joinText(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			last, _ := utf8.DecodeLastRuneInString(b.String())
			first, _ := utf8.DecodeRuneInString(p)
			if needsSpace(last, first) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(p)
	}
	return b.String()
}

func endsWithTerminal(s string) bool {
	s = strings.TrimRightFunc(s, func(r rune) bool { return unicode.IsSpace(r) || isCloser(r) })
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return isSentenceTerminal(r) || r == '.' || r == '…'
}

// cutAfter returns the rune offset just past a break at index i, swallowing closers.
func cutAfter(rs []rune, i int) int {
	k := i + 1
	for k < len(rs) && isCloser(rs[k]) {
		k++
	}
	return k
}

// isBreak reports whether rs[i] ends a sentence or clause. A period only counts
// before whitespace or at the end so that decimals survive.
func isBreak(rs []rune, i int, clauses bool) bool {
	r := rs[i]
	if isSentenceTerminal(r) {
		return true
	}
	if r == '.' {
		return i+1 == len(rs) || unicode.IsSpace(rs[i+1])
	}
	return clauses && isClausePunct(r)
}

// punctCuts lists rune offsets in (0, len(rs)) right after sentence or clause punctuation.
func punctCuts(rs []rune) []int {
	var cuts []int
	for i := range rs {
		if !isBreak(rs, i, true) {
			continue
		}
		k := cutAfter(rs, i)
		if k > 0 && k < len(rs) && (len(cuts) == 0 || cuts[len(cuts)-1] != k) {
			cuts = append(cuts, k)
		}
	}
	return cuts
}

// splitSentences breaks text after sentence terminals, keeping the terminals.
func splitSentences(text string) []string {
	rs := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(rs); i++ {
		if !isBreak(rs, i, false) {
			continue
		}
		k := cutAfter(rs, i)
		if s := strings.TrimSpace(string(rs[start:k])); s != "" {
			out = append(out, s)
		}
		start = k
		i = k - 1
	}
	if s := strings.TrimSpace(string(rs[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// cutText splits at rune offset k and trims both halves.
func cutText(rs []rune, k int) (string, string) {
	return strings.TrimSpace(string(rs[:k])), strings.TrimSpace(string(rs[k:]))
}
