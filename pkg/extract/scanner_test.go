package extract

import (
	"reflect"
	"strings"
	"testing"
)

func candidatePhrases(candidates []Candidate) []string {
	phrases := make([]string, 0, len(candidates))
	for _, c := range candidates {
		phrases = append(phrases, strings.ToLower(c.Phrase))
	}
	return phrases
}

func containsPhraseIn(candidates []Candidate, phrase string) bool {
	for _, p := range candidatePhrases(candidates) {
		if p == phrase {
			return true
		}
	}
	return false
}

func TestScanFindsExpectedConcepts(t *testing.T) {
	s := NewScanner(0)
	sentences := SplitSentences("Machine learning uses statistics to build predictive models.")
	candidates := s.Scan("Machine learning", sentences)

	for _, want := range []string{"machine learning", "statistics", "predictive models"} {
		if !containsPhraseIn(candidates, want) {
			t.Errorf("candidates %v missing %q", candidatePhrases(candidates), want)
		}
	}
}

func TestScanEmptyText(t *testing.T) {
	s := NewScanner(0)
	if got := s.Scan("", nil); len(got) != 0 {
		t.Errorf("Scan on empty input = %v, want none", got)
	}
}

func TestScanDeterministic(t *testing.T) {
	s := NewScanner(0)
	sentences := SplitSentences("Graph theory studies networks. Graph theory uses set theory. Networks appear in biology.")

	first := s.Scan("Graph theory", sentences)
	second := s.Scan("Graph theory", sentences)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated scans differ:\n%v\n%v", first, second)
	}
}

func TestScanCapsCandidates(t *testing.T) {
	var sb strings.Builder
	for _, w := range []string{
		"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta", "Theta",
		"Iota", "Kappa", "Lambda", "Mu", "Nu", "Xi", "Omicron", "Pi",
		"Rho", "Sigma", "Tau", "Upsilon", "Phi", "Chi", "Psi", "Omega",
	} {
		sb.WriteString(w + " appears here. ")
	}

	s := NewScanner(5)
	candidates := s.Scan("Greek letters", SplitSentences(sb.String()))

	// cap plus the always-included title
	if len(candidates) > 6 {
		t.Errorf("candidates = %d, want at most 6", len(candidates))
	}
	if !containsPhraseIn(candidates, "greek letters") {
		t.Errorf("title missing from %v", candidatePhrases(candidates))
	}
}

func TestScanTitleAlwaysIncluded(t *testing.T) {
	s := NewScanner(0)
	candidates := s.Scan("Obscure Topic", SplitSentences("Nothing relevant here at all."))
	if !containsPhraseIn(candidates, "obscure topic") {
		t.Errorf("title missing from %v", candidatePhrases(candidates))
	}
}

func TestScanSentenceInitialCapitalIsNotAPhrase(t *testing.T) {
	s := NewScanner(0)
	sentences := SplitSentences("We love statistics. Researchers love statistics.")
	candidates := s.Scan("", sentences)

	for _, junk := range []string{"we love statistics", "researchers love statistics"} {
		if containsPhraseIn(candidates, junk) {
			t.Errorf("candidates %v contain junk phrase %q", candidatePhrases(candidates), junk)
		}
	}

	// the keyword after the capitalized opener is still counted
	for _, c := range candidates {
		if strings.EqualFold(c.Phrase, "statistics") {
			if c.Count != 2 {
				t.Errorf("statistics count = %d, want 2", c.Count)
			}
			return
		}
	}
	t.Errorf("statistics not found in %v", candidatePhrases(candidates))
}

func TestScanFrequencyCounted(t *testing.T) {
	s := NewScanner(0)
	sentences := SplitSentences("Statistics is useful. We love statistics. More statistics please.")
	candidates := s.Scan("", sentences)

	for _, c := range candidates {
		if strings.EqualFold(c.Phrase, "statistics") {
			if c.Count != 3 {
				t.Errorf("statistics count = %d, want 3", c.Count)
			}
			return
		}
	}
	t.Errorf("statistics not found in %v", candidatePhrases(candidates))
}
