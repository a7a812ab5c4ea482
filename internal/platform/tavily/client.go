package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/provaloop/studyloop-backend/internal/platform/ctxutil"
	"github.com/provaloop/studyloop-backend/internal/platform/envutil"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

// Result is one normalized web-search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchResponse is the normalized output of one search call: an ordered
// result list plus an optional synthesized answer.
type SearchResponse struct {
	Results []Result `json:"results"`
	Answer  string   `json:"answer,omitempty"`
}

// Client is the web-search collaborator.
type Client interface {
	Search(ctx context.Context, query string, depth string, maxResults int) (SearchResponse, error)
}

var allowedDepths = map[string]bool{
	"basic":      true,
	"advanced":   true,
	"fast":       true,
	"ultra-fast": true,
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("TAVILY_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("TAVILY_API_KEY not set")
	}
	return &client{
		log:     log.With("client", "TavilyClient"),
		baseURL: envutil.String("TAVILY_BASE_URL", "https://api.tavily.com"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: envutil.Duration("TAVILY_TIMEOUT", 30*time.Second),
		},
	}, nil
}

type searchRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
	IncludeImages     bool   `json:"include_images"`
}

type searchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
	Answer string `json:"answer"`
}

func (c *client) Search(ctx context.Context, query string, depth string, maxResults int) (SearchResponse, error) {
	ctx = ctxutil.Default(ctx)
	if strings.TrimSpace(query) == "" {
		return SearchResponse{}, errors.New("empty search query")
	}
	if !allowedDepths[depth] {
		depth = "basic"
	}
	if maxResults < 0 || maxResults > 20 {
		maxResults = 5
	}

	payload, err := json.Marshal(searchRequest{
		APIKey:        c.apiKey,
		Query:         query,
		SearchDepth:   depth,
		MaxResults:    maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return SearchResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return SearchResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("tavily request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return SearchResponse{}, fmt.Errorf("tavily read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return SearchResponse{}, fmt.Errorf("tavily status %d: %s", resp.StatusCode, truncate(string(body), 500))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return SearchResponse{}, fmt.Errorf("tavily decode: %w", err)
	}

	out := SearchResponse{Answer: parsed.Answer}
	for _, item := range parsed.Results {
		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		out.Results = append(out.Results, Result{
			Title:   title,
			URL:     item.URL,
			Content: item.Content,
			Score:   item.Score,
		})
	}
	c.log.Debug("Search complete", "results", len(out.Results), "depth", depth)
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
