package common_tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
)

const (
	arxivMaxDocs  = 3
	arxivMaxChars = 1000
)

// Arxiv_Search searches arXiv and returns up to three abstracts, each cut to
// 1000 characters, under "arxiv_results". Failures are reported inside the result.
func (l *Lookup) Arxiv_Search(ctx context.Context, query string) map[string]interface{} {
	docs, err := l.arxivDocuments(ctx, query)
	if err != nil {
		return map[string]interface{}{"arxiv_results": l.searchFailure("arxiv_search", "Arxiv", query, err)}
	}
	if len(docs) == 0 {
		return map[string]interface{}{"arxiv_results": fmt.Sprintf("No Arxiv results found for '%s'.", query)}
	}
	return map[string]interface{}{"arxiv_results": FormatDocuments(docs)}
}

func (l *Lookup) arxivDocuments(ctx context.Context, query string) ([]Document, error) {
	q, err := requireQuery(query)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("search_query", "all:"+q)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprint(arxivMaxDocs))
	body, err := l.get(ctx, l.ArxivAPI+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("querying arXiv: %w", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decoding arXiv feed: %w", err)
	}

	docs := make([]Document, 0, arxivMaxDocs)
	for _, e := range feed.Entries {
		docs = append(docs, Document{
			Source:  e.ID,
			Page:    collapseSpace(e.Title),
			Content: truncateRunes(collapseSpace(e.Summary), arxivMaxChars),
		})
		if len(docs) == arxivMaxDocs {
			break
		}
	}
	return docs, nil
}
