package triage

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// vectorizer builds TF-IDF term-weight vectors over unigrams and bigrams
// with a capped vocabulary. Vectors are L2 normalized so cosine similarity
// reduces to a dot product in [0,1]. Construction is fully deterministic
// for a fixed document set.
type vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// termWeight is one vocabulary index with its weight.
type termWeight struct {
	idx int
	w   float64
}

// sparseVector holds term weights in ascending index order. Keeping the
// entries sorted makes every accumulation below run in a fixed order, so
// scores are bitwise reproducible across invocations.
type sparseVector []termWeight

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || isStopWord(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// terms expands tokens into unigrams and bigrams.
func terms(text string) []string {
	tokens := tokenize(text)
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// newVectorizer fits the vocabulary and inverse document frequencies over
// the given documents, keeping at most maxFeatures terms. Terms are kept by
// descending corpus frequency, alphabetical within ties, which keeps the
// fit stable across invocations.
func newVectorizer(docs []string, maxFeatures int) *vectorizer {
	termFreq := map[string]int{}
	docFreq := map[string]int{}
	for _, doc := range docs {
		seen := map[string]struct{}{}
		for _, term := range terms(doc) {
			termFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	kept := make([]string, 0, len(termFreq))
	for term := range termFreq {
		kept = append(kept, term)
	}
	sort.Slice(kept, func(i, j int) bool {
		if termFreq[kept[i]] != termFreq[kept[j]] {
			return termFreq[kept[i]] > termFreq[kept[j]]
		}
		return kept[i] < kept[j]
	})
	if maxFeatures > 0 && len(kept) > maxFeatures {
		kept = kept[:maxFeatures]
	}
	sort.Strings(kept)

	v := &vectorizer{
		vocab: make(map[string]int, len(kept)),
		idf:   make([]float64, len(kept)),
	}
	n := float64(len(docs))
	for i, term := range kept {
		v.vocab[term] = i
		// smoothed idf keeps weights finite for terms in every document
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v
}

// vectorize maps a document to its normalized sparse TF-IDF vector.
func (v *vectorizer) vectorize(doc string) sparseVector {
	counts := map[int]float64{}
	for _, term := range terms(doc) {
		if idx, ok := v.vocab[term]; ok {
			counts[idx]++
		}
	}

	vec := make(sparseVector, 0, len(counts))
	for idx, tf := range counts {
		vec = append(vec, termWeight{idx: idx, w: tf * v.idf[idx]})
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].idx < vec[j].idx })

	var norm float64
	for _, tw := range vec {
		norm += tw.w * tw.w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].w /= norm
	}
	return vec
}

// cosine returns the similarity of two normalized vectors via a merge walk
// over their sorted entries.
func cosine(a, b sparseVector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].idx < b[j].idx:
			i++
		case a[i].idx > b[j].idx:
			j++
		default:
			dot += a[i].w * b[j].w
			i++
			j++
		}
	}
	if dot > 1 {
		return 1
	}
	if dot < 0 {
		return 0
	}
	return dot
}
