package extract

import (
	"sort"
	"strings"
	"unicode"
)

const defaultMaxCandidates = 20

// maximum tokens in a candidate phrase
const maxPhraseTokens = 4

var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"with": {}, "by": {}, "from": {}, "as": {}, "into": {}, "over": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"has": {}, "have": {}, "had": {}, "can": {}, "may": {}, "will": {},
	"it": {}, "its": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"which": {}, "who": {}, "what": {}, "when": {}, "where": {}, "how": {},
	"not": {}, "no": {}, "also": {}, "such": {}, "other": {}, "some": {},
	"their": {}, "there": {}, "they": {}, "one": {}, "two": {}, "more": {},
	"most": {}, "many": {}, "each": {}, "between": {}, "both": {}, "than": {},
	"then": {}, "thus": {}, "very": {}, "often": {}, "called": {},
}

// verbs that connect concepts; they delimit phrases and never belong to one
var connectorVerbs = map[string]struct{}{
	"uses": {}, "use": {}, "used": {}, "using": {},
	"causes": {}, "cause": {}, "caused": {},
	"leads": {}, "led": {},
	"results": {}, "resulted": {},
	"produces": {}, "produced": {},
	"influences": {}, "influenced": {},
	"affects": {}, "affected": {},
	"impacts": {}, "impacted": {},
	"implements": {}, "implemented": {},
	"performs": {}, "performed": {},
	"relies": {}, "depends": {}, "employs": {}, "utilizes": {},
	"builds": {}, "build": {}, "based": {}, "leverages": {},
	"comprises": {}, "consists": {}, "belongs": {},
	"studies": {}, "describes": {}, "defines": {}, "requires": {},
}

// domain terms worth keeping even when lowercase and mid-sentence
var domainKeywords = map[string]struct{}{
	"statistics": {}, "calculus": {}, "algebra": {}, "geometry": {},
	"topology": {}, "probability": {}, "optimization": {}, "logic": {},
	"analysis": {}, "algorithm": {}, "algorithms": {}, "theorem": {},
	"matrix": {}, "matrices": {}, "vector": {}, "vectors": {},
	"function": {}, "functions": {}, "derivative": {}, "derivatives": {},
	"integral": {}, "integrals": {}, "equation": {}, "equations": {},
	"graph": {}, "graphs": {}, "set": {}, "sets": {}, "group": {},
	"groups": {}, "ring": {}, "rings": {}, "field": {}, "fields": {},
	"proof": {}, "proofs": {}, "learning": {}, "data": {},
	"network": {}, "networks": {}, "entropy": {}, "inference": {},
	"regression": {}, "classification": {}, "computation": {},
}

// head nouns that anchor lowercase noun phrases ("predictive models",
// "graph theory")
var headNouns = map[string]struct{}{
	"model": {}, "models": {}, "theory": {}, "theories": {},
	"method": {}, "methods": {}, "algorithm": {}, "algorithms": {},
	"system": {}, "systems": {}, "network": {}, "networks": {},
	"analysis": {}, "process": {}, "processes": {}, "structure": {},
	"structures": {}, "space": {}, "spaces": {}, "equation": {},
	"equations": {}, "function": {}, "functions": {}, "learning": {},
	"distribution": {}, "distributions": {},
}

// Candidate is a concept phrase found in a document, with its occurrence
// count and ranking score.
type Candidate struct {
	Phrase string
	Count  int
	Score  int
}

// Scanner extracts candidate concept phrases from sentences using lexical
// patterns. Scanning is stateless, so the same input always yields the
// same candidates in the same order.
type Scanner struct {
	maxCandidates int
}

// NewScanner creates a scanner capped at maxCandidates per document. A
// non-positive cap falls back to the default of 20.
func NewScanner(maxCandidates int) *Scanner {
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	return &Scanner{maxCandidates: maxCandidates}
}

type token struct {
	text  string
	lower string
}

func tokenizeCased(sentence string) []token {
	fields := strings.FieldsFunc(sentence, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, token{text: f, lower: strings.ToLower(f)})
	}
	return tokens
}

func isCapitalized(t token) bool {
	r := []rune(t.text)
	return len(r) > 0 && unicode.IsUpper(r[0])
}

func isPhraseWord(t token) bool {
	if _, ok := stopwords[t.lower]; ok {
		return false
	}
	if _, ok := connectorVerbs[t.lower]; ok {
		return false
	}
	return true
}

func isDomainWord(lower string) bool {
	if _, ok := domainKeywords[lower]; ok {
		return true
	}
	_, ok := headNouns[lower]
	return ok
}

// Scan extracts ranked candidate phrases from the document title and
// sentences. The title is always a candidate. Candidates beyond the
// configured cap are dropped, lowest score first.
func (s *Scanner) Scan(title string, sentences []string) []Candidate {
	type occurrence struct {
		display       string
		count         int
		firstSentence int
	}
	found := make(map[string]*occurrence)

	record := func(display string, sentenceIdx int) {
		key := strings.ToLower(display)
		if occ, ok := found[key]; ok {
			occ.count++
			return
		}
		found[key] = &occurrence{display: display, count: 1, firstSentence: sentenceIdx}
	}

	for idx, sentence := range sentences {
		tokens := tokenizeCased(sentence)
		for i := 0; i < len(tokens); i++ {
			t := tokens[i]

			// capitalized phrase, extended over adjacent phrase words.
			// A capital at sentence start is not evidence of a name, so
			// only domain continuation words are absorbed there; tokens
			// left behind are scanned normally on later iterations.
			if isCapitalized(t) && isPhraseWord(t) {
				end := i + 1
				for end < len(tokens) && end-i < maxPhraseTokens && isPhraseWord(tokens[end]) && !isCapitalized(tokens[end]) {
					if i == 0 && !isDomainWord(tokens[end].lower) {
						break
					}
					end++
				}
				phrase := joinTokens(tokens[i:end])
				if len(phrase) > 2 {
					record(phrase, idx)
				}
				i = end - 1
				continue
			}

			// lowercase noun phrase anchored on a head noun
			if _, ok := headNouns[t.lower]; ok {
				start := i
				if i > 0 && isPhraseWord(tokens[i-1]) && !isCapitalized(tokens[i-1]) {
					start = i - 1
				}
				phrase := joinTokens(tokens[start : i+1])
				if len(phrase) > 2 {
					record(phrase, idx)
				}
				continue
			}

			// bare domain keyword
			if _, ok := domainKeywords[t.lower]; ok {
				record(t.text, idx)
			}
		}
	}

	earlyCutoff := len(sentences) / 5
	if earlyCutoff < 1 {
		earlyCutoff = 1
	}

	candidates := make([]Candidate, 0, len(found))
	for _, occ := range found {
		score := occ.count
		if occ.firstSentence < earlyCutoff {
			score += 2
		}
		if strings.ContainsRune(occ.display, ' ') {
			score++
		}
		for _, w := range strings.Fields(strings.ToLower(occ.display)) {
			if _, ok := domainKeywords[w]; ok {
				score++
				break
			}
		}
		candidates = append(candidates, Candidate{
			Phrase: occ.display,
			Count:  occ.count,
			Score:  score,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return strings.ToLower(candidates[i].Phrase) < strings.ToLower(candidates[j].Phrase)
	})

	if len(candidates) > s.maxCandidates {
		candidates = candidates[:s.maxCandidates]
	}

	// the document title is always a concept, ahead of the cap
	title = strings.TrimSpace(title)
	if title != "" {
		titleKey := strings.ToLower(title)
		present := false
		for _, c := range candidates {
			if strings.ToLower(c.Phrase) == titleKey {
				present = true
				break
			}
		}
		if !present {
			count := 1
			if occ, ok := found[titleKey]; ok {
				count = occ.count
			}
			candidates = append([]Candidate{{Phrase: title, Count: count, Score: count + 3}}, candidates...)
		}
	}

	return candidates
}

func joinTokens(tokens []token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.text
	}
	return strings.Join(parts, " ")
}
