package extract

import (
	"sort"
	"strings"
	"unicode"

	"github.com/vats98754/auto-kg/backend/pkg/common"
)

// similarity thresholds for matching a candidate against existing
// concepts; ambiguous near-duplicates below these stay separate
const (
	jaccardThreshold      = 0.8
	editDistanceThreshold = 0.15
)

var leadingArticles = map[string]struct{}{
	"the": {}, "a": {}, "an": {},
}

// NormalizeID derives the canonical id from a phrase: case-folded,
// punctuation stripped, leading articles dropped, plural heads reduced,
// whitespace collapsed to underscores. The result is a pure function of
// the input.
func NormalizeID(phrase string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return unicode.ToLower(r)
		}
		return ' '
	}, phrase)

	words := strings.Fields(cleaned)
	for len(words) > 0 {
		if _, ok := leadingArticles[words[0]]; !ok {
			break
		}
		words = words[1:]
	}
	if len(words) == 0 {
		return ""
	}

	last := len(words) - 1
	words[last] = singularize(words[last])

	return strings.Join(words, "_")
}

// NormalizeTitle produces the display form: trimmed with internal
// whitespace collapsed, original casing preserved.
func NormalizeTitle(phrase string) string {
	return strings.Join(strings.Fields(phrase), " ")
}

func singularize(word string) string {
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ss"), strings.HasSuffix(word, "us"), strings.HasSuffix(word, "is"):
		return word
	case strings.HasSuffix(word, "s") && len(word) > 3:
		return word[:len(word)-1]
	default:
		return word
	}
}

// Similar reports whether two phrases refer to the same concept, using
// token overlap first and a normalized edit distance as the fallback.
// Both thresholds are fixed constants so results never drift between
// runs.
func Similar(a string, b string) bool {
	idA, idB := NormalizeID(a), NormalizeID(b)
	if idA == idB {
		return true
	}

	tokensA := Tokenize(idA)
	tokensB := Tokenize(idB)
	if jaccard(tokensA, tokensB) >= jaccardThreshold {
		return true
	}

	longer := len(idA)
	if len(idB) > longer {
		longer = len(idB)
	}
	if longer == 0 {
		return false
	}
	dist := editDistance(idA, idB)
	return float64(dist)/float64(longer) <= editDistanceThreshold
}

func jaccard(a []string, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	inter := 0
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, ok := setB[t]; ok {
			continue
		}
		setB[t] = struct{}{}
		if _, ok := setA[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func editDistance(a string, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// ResolveConcept matches a phrase against known concepts: exact id match
// first, then the similarity check against titles. When several known
// concepts are similar, the lexicographically smallest id wins so
// resolution stays deterministic. The second return reports whether a
// match was found.
func ResolveConcept(phrase string, known []common.Concept) (common.Concept, bool) {
	id := NormalizeID(phrase)
	for _, c := range known {
		if c.ID == id {
			return c, true
		}
	}

	matches := make([]common.Concept, 0, 1)
	for _, c := range known {
		if Similar(phrase, c.Title) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return common.Concept{}, false
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches[0], true
}
