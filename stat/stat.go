package stat

import (
	sent "github.com/revelaction/semgraph/sentence"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumDocs               int            `json:"docs"`
	NumSentences          int            `json:"sentences"`
	NumClauses            int            `json:"clauses"`
	NumTokens             int            `json:"tokens"`
	TokensPerSentenceMean int            `json:"tokens_per_sentence_mean"`
	TokensPerSentenceDis  map[int]int    `json:"tokens_per_sentence"`
	PosDis                map[string]int `json:"pos"`
	DepDis                map[string]int `json:"dep"`
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{
		TokensPerSentenceDis: map[int]int{},
		PosDis:               map[string]int{},
		DepDis:               map[string]int{},
	}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds the counts of an analyzed doc.
func (h *Handler) Aggregate(doc *sent.Doc) {
	h.stats.NumDocs++
	h.stats.NumClauses += len(doc.Clauses())

	for _, sentence := range doc.Sentences() {
		if len(sentence) == 0 {
			continue
		}
		h.stats.NumSentences++
		h.stats.NumTokens += len(sentence)
		h.stats.TokensPerSentenceDis[len(sentence)]++
	}

	for _, t := range doc.Tokens {
		h.stats.PosDis[t.Pos]++
		if t.Dep != "" {
			h.stats.DepDis[t.Dep]++
		}
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}
}
