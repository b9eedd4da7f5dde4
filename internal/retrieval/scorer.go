package retrieval

import (
	"math"
	"strings"
)

// scoring weights, tuned against the suffix heuristic below; see Thresholds
// for the companion ranking constants
const (
	weightExactPhrase  = 100.0
	weightExactToken   = 15.0
	weightPartialToken = 2.0
	weightStemToken    = 5.0
	weightCoverage     = 30.0
	weightDensity      = 150.0

	proximityNear    = 50
	proximityFar     = 200
	proximityNearMax = 20.0
	proximityFarMax  = 8.0

	minQueryTokenLength = 2
	minStemLength       = 3
)

// stopwords are high-frequency function words dropped from query
// tokenization; they carry no discriminative signal.
var stopwords = map[string]bool{
	"the": true, "is": true, "at": true, "which": true, "on": true,
	"a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "with": true, "to": true, "for": true, "of": true,
	"as": true, "by": true, "from": true, "be": true, "are": true,
	"was": true, "were": true, "been": true, "has": true, "have": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "can": true, "may": true,
	"might": true, "this": true, "that": true, "these": true, "those": true,
	"it": true, "its": true, "what": true, "who": true, "where": true,
	"when": true,
}

// stemSuffixes is an ad hoc suffix set, not a linguistic stemmer. Order
// matters: the first matching suffix is stripped. The scoring weights were
// tuned against exactly this list, so it must not be replaced with a real
// stemming algorithm.
var stemSuffixes = []string{"ing", "ed", "s", "es", "ly", "er", "est"}

// Score rates the lexical relevance of text against query. It is a pure
// function: identical inputs always produce the identical score. An empty
// query or empty text scores 0, as does a query whose every token is
// filtered out.
func Score(query, text string) float64 {
	if query == "" || text == "" {
		return 0
	}

	queryLower := strings.ToLower(query)
	textLower := strings.ToLower(text)

	queryTokens := filterQueryTokens(tokenize(queryLower))
	if len(queryTokens) == 0 {
		return 0
	}

	textTokens := tokenize(textLower)

	var score float64

	// exact phrase match dominates everything else
	if strings.Contains(textLower, queryLower) {
		score += weightExactPhrase
	}

	for _, q := range queryTokens {
		var exact, partial, stemmed int
		qStem := stem(q)

		for _, w := range textTokens {
			switch {
			case w == q:
				exact++
			case len(w) > len(q) && strings.Contains(w, q):
				partial++
			}

			if len(qStem) > minStemLength && w != q && stem(w) == qStem {
				stemmed++
			}
		}

		score += float64(exact) * weightExactToken
		score += float64(partial) * weightPartialToken
		score += float64(stemmed) * weightStemToken
	}

	score += proximityScore(queryTokens, textLower)

	matched := 0
	for _, q := range queryTokens {
		for _, w := range textTokens {
			if w == q {
				matched++
				break
			}
		}
	}

	tokenCount := max(len(textTokens), 1)
	score += float64(matched) / float64(len(queryTokens)) * weightCoverage
	score += float64(matched) / float64(tokenCount) * weightDensity

	// suppress the long-chunk bias
	return score / math.Sqrt(float64(tokenCount))
}

// proximityScore rewards adjacent query-token pairs that occur close
// together in the text, by first-occurrence character distance.
func proximityScore(queryTokens []string, textLower string) float64 {
	var score float64
	for i := 0; i+1 < len(queryTokens); i++ {
		pos1 := strings.Index(textLower, queryTokens[i])
		pos2 := strings.Index(textLower, queryTokens[i+1])
		if pos1 == -1 || pos2 == -1 {
			continue
		}

		d := float64(pos2 - pos1)
		if d < 0 {
			d = -d
		}

		switch {
		case d < proximityNear:
			score += proximityNearMax * (1 - d/proximityNear)
		case d < proximityFar:
			score += proximityFarMax * (1 - d/proximityFar)
		}
	}
	return score
}

// tokenize splits lowercased text on non-word-character boundaries.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return r == '_' ||
		('0' <= r && r <= '9') ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z')
}

func filterQueryTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) > minQueryTokenLength && !stopwords[t] {
			out = append(out, t)
		}
	}
	return out
}

func stem(w string) string {
	for _, suffix := range stemSuffixes {
		if strings.HasSuffix(w, suffix) {
			return strings.TrimSuffix(w, suffix)
		}
	}
	return w
}
