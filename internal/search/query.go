package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Hit is a single user search result.
type Hit struct {
	ID          string  `json:"id"`
	Score       float64 `json:"score"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name,omitempty"`
}

// Result holds the outcome of a user search.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Search finds users matching the query across username, display name and bio.
// Username matches rank highest; a prefix query keeps partial handles working
// for find-as-you-type clients.
func (s *UserIndex) Search(ctx context.Context, q string, limit, offset int) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	var queries []query.Query

	usernameMatch := bleve.NewMatchQuery(q)
	usernameMatch.SetField("username")
	usernameMatch.SetBoost(3.0)
	queries = append(queries, usernameMatch)

	displayMatch := bleve.NewMatchQuery(q)
	displayMatch.SetField("display_name")
	displayMatch.SetBoost(2.0)
	queries = append(queries, displayMatch)

	bioMatch := bleve.NewMatchQuery(q)
	bioMatch.SetField("bio")
	bioMatch.SetBoost(0.5)
	queries = append(queries, bioMatch)

	fuzzy := bleve.NewFuzzyQuery(q)
	fuzzy.SetFuzziness(1)
	fuzzy.SetField("username")
	fuzzy.SetBoost(0.8)
	queries = append(queries, fuzzy)

	if len(q) >= 2 {
		prefix := bleve.NewPrefixQuery(strings.ToLower(q))
		prefix.SetField("username")
		prefix.SetBoost(1.0)
		queries = append(queries, prefix)

		displayPrefix := bleve.NewPrefixQuery(strings.ToLower(q))
		displayPrefix.SetField("display_name")
		displayPrefix.SetBoost(0.7)
		queries = append(queries, displayPrefix)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), limit, offset, false)
	req.Fields = []string{"username", "display_name"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute user search: %w", err)
	}

	result := &Result{
		Query:  q,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		h := Hit{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["username"].(string); ok {
			h.Username = v
		}
		if v, ok := hit.Fields["display_name"].(string); ok {
			h.DisplayName = v
		}
		result.Hits = append(result.Hits, h)
	}
	return result, nil
}
