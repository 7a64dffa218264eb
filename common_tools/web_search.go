package common_tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

const webMaxResults = 3

// Web_Search queries Tavily and returns up to three results under "web_results".
// Failures, including a missing API key, are reported inside the result.
func (l *Lookup) Web_Search(ctx context.Context, query string) map[string]interface{} {
	docs, err := l.webDocuments(ctx, query)
	if err != nil {
		return map[string]interface{}{"web_results": l.searchFailure("web_search", "Web", query, err)}
	}
	if len(docs) == 0 {
		return map[string]interface{}{"web_results": fmt.Sprintf("No web results found for '%s'.", query)}
	}
	return map[string]interface{}{"web_results": FormatDocuments(docs)}
}

func (l *Lookup) webDocuments(ctx context.Context, query string) ([]Document, error) {
	q, err := requireQuery(query)
	if err != nil {
		return nil, err
	}
	if l.TavilyAPIKey == "" {
		return nil, errors.New("TAVILY_API_KEY is not configured")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"api_key":     l.TavilyAPIKey,
		"query":       q,
		"max_results": webMaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshalling request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.TavilyAPI, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+l.TavilyAPIKey)

	body, err := l.do(req)
	if err != nil {
		if detail := gjson.GetBytes(body, "detail.error"); detail.Exists() {
			return nil, fmt.Errorf("tavily: %s", detail.String())
		}
		return nil, fmt.Errorf("tavily: %w", err)
	}

	docs := make([]Document, 0, webMaxResults)
	gjson.GetBytes(body, "results").ForEach(func(_, r gjson.Result) bool {
		docs = append(docs, Document{
			Source:  r.Get("url").String(),
			Page:    r.Get("title").String(),
			Content: r.Get("content").String(),
		})
		return len(docs) < webMaxResults
	})
	return docs, nil
}
