package survey

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Keyword extraction defaults.
const (
	DefaultKeywords = 15
	MaxFeatures     = 5000
	MinDocFreq      = 2
)

// TopKeywords ranks unigrams and bigrams by summed TF-IDF weight across
// texts. Terms must occur in at least MinDocFreq texts; the vocabulary is
// capped at MaxFeatures by corpus frequency. IDF is smoothed and each text's
// vector is L2 normalised before summing. Ties rank lexically.
func TopKeywords(texts []string, k int) []string {
	if k <= 0 {
		return []string{}
	}

	docs := make([]map[string]int, len(texts))
	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for i, text := range texts {
		counts := make(map[string]int)
		for _, term := range ngrams(wordTokens(text)) {
			counts[term]++
		}
		for term, c := range counts {
			docFreq[term]++
			termFreq[term] += c
		}
		docs[i] = counts
	}

	vocab := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= MinDocFreq {
			vocab = append(vocab, term)
		}
	}
	if len(vocab) > MaxFeatures {
		sort.Slice(vocab, func(i, j int) bool {
			if termFreq[vocab[i]] != termFreq[vocab[j]] {
				return termFreq[vocab[i]] > termFreq[vocab[j]]
			}
			return vocab[i] < vocab[j]
		})
		vocab = vocab[:MaxFeatures]
	}
	if len(vocab) == 0 {
		return []string{}
	}

	n := float64(len(texts))
	idf := make(map[string]float64, len(vocab))
	for _, term := range vocab {
		idf[term] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	scores := make(map[string]float64, len(vocab))
	for _, counts := range docs {
		terms := make([]string, 0, len(counts))
		for term := range counts {
			if _, ok := idf[term]; ok {
				terms = append(terms, term)
			}
		}
		// Fixed summation order keeps scores reproducible.
		sort.Strings(terms)

		weights := make(map[string]float64, len(terms))
		var norm float64
		for _, term := range terms {
			weights[term] = float64(counts[term]) * idf[term]
			norm += weights[term] * weights[term]
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for term, w := range weights {
			scores[term] += w / norm
		}
	}

	sort.Slice(vocab, func(i, j int) bool {
		if scores[vocab[i]] != scores[vocab[j]] {
			return scores[vocab[i]] > scores[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > k {
		vocab = vocab[:k]
	}
	return vocab
}

// wordTokens lower-cases and keeps runs of two or more word characters.
func wordTokens(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func ngrams(tokens []string) []string {
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}
