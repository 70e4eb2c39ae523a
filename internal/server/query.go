package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/dharsanguruparan/LinguaShelf/internal/model"
)

const noMatch = "No matching passage found."

type queryRequest struct {
	Query string `json:"query"`
}

type querySource struct {
	Source string `json:"source"`
}

type queryResponse struct {
	English string      `json:"english_version"`
	Arabic  string      `json:"arabic_version"`
	Source  querySource `json:"source"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid query body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	respondJSON(w, http.StatusOK, answer(req.Query, s.store.Processed()))
}

// answer picks the line with the most query-term hits across docs. Arabic is
// left empty: nothing here translates.
func answer(query string, docs []*model.Document) queryResponse {
	terms := tokenize(query)
	best, bestScore, source := "", 0, ""
	for _, doc := range docs {
		for _, line := range strings.Split(doc.Text, "\n") {
			score := hits(terms, tokenize(line))
			if score > bestScore {
				best, bestScore, source = strings.TrimSpace(line), score, doc.Name
			}
		}
	}
	if bestScore == 0 {
		return queryResponse{English: noMatch, Source: querySource{Source: "none"}}
	}
	return queryResponse{English: best, Source: querySource{Source: source}}
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	out := fields[:0]
	for _, f := range fields {
		// drop short function words
		if len([]rune(f)) >= 3 || isNumber(f) {
			out = append(out, f)
		}
	}
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return s != ""
}

func hits(terms, words []string) int {
	if len(terms) == 0 || len(words) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	n := 0
	for _, t := range terms {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}
