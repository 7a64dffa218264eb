package common_tools

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
)

const (
	wikiMaxDocs  = 2
	wikiMaxChars = 4000
)

// Wiki_Search searches Wikipedia and returns up to two pages under "wiki_results".
// Failures are reported inside the result, never as an error.
func (l *Lookup) Wiki_Search(ctx context.Context, query string) map[string]interface{} {
	docs, err := l.wikiDocuments(ctx, query)
	if err != nil {
		return map[string]interface{}{"wiki_results": l.searchFailure("wiki_search", "Wikipedia", query, err)}
	}
	if len(docs) == 0 {
		return map[string]interface{}{"wiki_results": fmt.Sprintf("No Wikipedia results found for '%s'.", query)}
	}
	return map[string]interface{}{"wiki_results": FormatDocuments(docs)}
}

func (l *Lookup) wikiDocuments(ctx context.Context, query string) ([]Document, error) {
	q, err := requireQuery(query)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("list", "search")
	params.Set("srsearch", q)
	params.Set("srlimit", fmt.Sprint(wikiMaxDocs))
	body, err := l.get(ctx, l.WikipediaAPI+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("searching Wikipedia: %w", err)
	}
	if apiErr := gjson.GetBytes(body, "error.info"); apiErr.Exists() {
		return nil, fmt.Errorf("wikipedia api: %s", apiErr.String())
	}

	docs := make([]Document, 0, wikiMaxDocs)
	for _, title := range gjson.GetBytes(body, "query.search.#.title").Array() {
		doc, err := l.wikiPage(ctx, title.String())
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		if len(docs) == wikiMaxDocs {
			break
		}
	}
	return docs, nil
}

func (l *Lookup) wikiPage(ctx context.Context, title string) (Document, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("prop", "extracts|info")
	params.Set("inprop", "url")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", title)
	body, err := l.get(ctx, l.WikipediaAPI+"?"+params.Encode())
	if err != nil {
		return Document{}, fmt.Errorf("loading page %q: %w", title, err)
	}

	page := gjson.GetBytes(body, "query.pages.0")
	if !page.Exists() || page.Get("missing").Bool() {
		return Document{}, fmt.Errorf("page %q not found", title)
	}
	source := page.Get("fullurl").String()
	if source == "" {
		source = "https://en.wikipedia.org/wiki/" + url.PathEscape(title)
	}
	return Document{
		Source:  source,
		Page:    page.Get("title").String(),
		Content: truncateRunes(page.Get("extract").String(), wikiMaxChars),
	}, nil
}
