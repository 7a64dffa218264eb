package common_tools

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	DefaultWikipediaAPI = "https://en.wikipedia.org/w/api.php"
	DefaultTavilyAPI    = "https://api.tavily.com/search"
	DefaultArxivAPI     = "https://export.arxiv.org/api/query"

	userAgent = "toolchat/1.0 (Search Tools)"
)

// Lookup holds the endpoints and credentials shared by the search tools.
// Its zero value is not usable; build it with NewLookup.
type Lookup struct {
	Client       *http.Client
	WikipediaAPI string
	TavilyAPI    string
	TavilyAPIKey string
	ArxivAPI     string
	Logger       *log.Logger
}

// NewLookup returns a Lookup pointed at the public APIs. An empty tavilyAPIKey
// is allowed: web_search then reports the missing key as its failure reason.
func NewLookup(tavilyAPIKey string) *Lookup {
	return &Lookup{
		Client:       &http.Client{Timeout: 30 * time.Second},
		WikipediaAPI: DefaultWikipediaAPI,
		TavilyAPI:    DefaultTavilyAPI,
		TavilyAPIKey: tavilyAPIKey,
		ArxivAPI:     DefaultArxivAPI,
		Logger:       log.New(os.Stdout, "[Tools] ", log.LstdFlags),
	}
}

// searchFailure logs the failure and renders the message handed to the model.
func (l *Lookup) searchFailure(tool, kind, query string, err error) string {
	l.Logger.Printf("[%s] Error: %v", tool, err)
	return fmt.Sprintf("ERROR: %s search failed for '%s'. Reason: %v", kind, query, err)
}

func (l *Lookup) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", userAgent)
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return body, &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func (l *Lookup) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return l.do(req)
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	if len(e.Body) > 200 {
		return fmt.Sprintf("HTTP %d: %s...", e.Code, e.Body[:200])
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

func requireQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", fmt.Errorf("search query cannot be empty")
	}
	return q, nil
}
