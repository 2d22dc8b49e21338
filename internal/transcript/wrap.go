package transcript

import "unicode"

// wrapLines breaks text into one or two lines of at most maxLine runes. The
// break goes after the punctuation that gives the most even pair of lines,
// else at a space, else at the rune midpoint.
func wrapLines(text string, maxLine int) []string {
	rs := []rune(text)
	if len(rs) <= maxLine {
		return []string{text}
	}

	k := balancedCut(rs, punctCuts(rs), maxLine)
	if k < 0 {
		var spaces []int
		for i, r := range rs {
			if unicode.IsSpace(r) {
				spaces = append(spaces, i)
			}
		}
		k = balancedCut(rs, spaces, maxLine)
	}
	if k < 0 {
		k = (len(rs) + 1) / 2
	}

	first, second := cutText(rs, k)
	lines := make([]string, 0, 2)
	for _, l := range []string{first, second} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// balancedCut returns the candidate whose halves both fit and differ the
// least in length, or -1. Ties keep the earlier candidate.
func balancedCut(rs []rune, candidates []int, maxLine int) int {
	best, bestDiff := -1, 0
	for _, k := range candidates {
		first, second := cutText(rs, k)
		a, b := runeLen(first), runeLen(second)
		if a == 0 || b == 0 || a > maxLine || b > maxLine {
			continue
		}
		if diff := absInt(a - b); best < 0 || diff < bestDiff {
			best, bestDiff = k, diff
		}
	}
	return best
}
