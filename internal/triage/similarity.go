package triage

import "sort"

const (
	// MinSimilarityScore is the floor below which matches are discarded.
	MinSimilarityScore = 0.1
	// DefaultSimilarityLimit bounds results when the caller passes none.
	DefaultSimilarityLimit = 5
	// maxVocabulary caps the TF-IDF feature space.
	maxVocabulary = 1000
)

// CorpusDoc is one candidate document for similarity ranking. ID refers
// back to the source record; Text is the searchable content.
type CorpusDoc struct {
	ID   string
	Text string
}

// Match pairs a corpus document with its similarity to the query.
type Match struct {
	Doc   CorpusDoc
	Score float64
}

// RankSimilar vectorizes the corpus plus the query, computes cosine
// similarity of the query against every corpus document, and returns the
// top matches above MinSimilarityScore in descending score order. Ties keep
// corpus order (stable sort), so identical inputs always yield identical
// output.
func RankSimilar(query string, corpus []CorpusDoc, limit int) []Match {
	if len(corpus) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSimilarityLimit
	}

	docs := make([]string, 0, len(corpus)+1)
	for _, doc := range corpus {
		docs = append(docs, doc.Text)
	}
	docs = append(docs, query)

	v := newVectorizer(docs, maxVocabulary)
	queryVec := v.vectorize(query)

	matches := make([]Match, 0, len(corpus))
	for _, doc := range corpus {
		score := cosine(queryVec, v.vectorize(doc.Text))
		if score > MinSimilarityScore {
			matches = append(matches, Match{Doc: doc, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
