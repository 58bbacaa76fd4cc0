package extract

import (
	"strings"
	"unicode"
)

// Extract turns raw document text into an ordered sequence of normalized
// term occurrences. Terms are lower-cased, stripped of punctuation, and
// filtered against a fixed stop-word set. Adjacent surviving words
// additionally emit a bigram as a distinct term.
//
// Identical input always yields an identical sequence. A document whose
// tokens are all filtered out still contributes its single longest token,
// so no non-empty document produces an empty term sequence.
func Extract(text string) []string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	type candidate struct {
		term string
		pos  int
	}

	var kept []candidate
	for i, token := range tokens {
		if isStopWord(token) || len([]rune(token)) < 2 {
			continue
		}
		kept = append(kept, candidate{term: token, pos: i})
	}

	if len(kept) == 0 {
		longest := tokens[0]
		for _, token := range tokens[1:] {
			if len(token) > len(longest) {
				longest = token
			}
		}
		return []string{longest}
	}

	var terms []string
	for i, c := range kept {
		terms = append(terms, c.term)
		if i > 0 && kept[i-1].pos == c.pos-1 {
			terms = append(terms, kept[i-1].term+" "+c.term)
		}
	}

	return terms
}

func tokenize(text string) []string {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	return strings.Fields(normalized)
}
