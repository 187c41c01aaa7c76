package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrNotFound = errors.New("wiki: page not found")

// Page is one article: its intro text plus outbound article links
// in the order the API returned them.
type Page struct {
	Title   string
	Summary string
	Links   []string
}

// Client talks to the MediaWiki Action API of one wiki.
type Client struct {
	BaseURL   string // e.g. https://en.wikipedia.org/w/api.php
	UserAgent string
	httpc     *http.Client
}

func New(lang, userAgent string) *Client {
	return &Client{
		BaseURL:   fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang),
		UserAgent: userAgent,
		httpc:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Resolve turns a raw user string into a canonical article title.
// An empty string asks for a random article instead.
func (c *Client) Resolve(ctx context.Context, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return c.RandomPage(ctx)
	}
	return c.Search(ctx, raw)
}

// Search returns the top title from the wiki's search index.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	q := url.Values{
		"action":    {"opensearch"},
		"format":    {"json"},
		"limit":     {"5"},
		"namespace": {"0"},
		"search":    {query},
	}
	raw, err := c.get(ctx, q)
	if err != nil {
		return "", err
	}

	// opensearch replies with a positional array: [query, titles, descriptions, urls]
	var env []json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("wiki search: %w", err)
	}
	if len(env) < 2 {
		return "", fmt.Errorf("wiki search: short envelope (%d elements)", len(env))
	}
	var titles []string
	if err := json.Unmarshal(env[1], &titles); err != nil {
		return "", fmt.Errorf("wiki search: %w", err)
	}
	if len(titles) == 0 {
		return "", fmt.Errorf("%w: no search result for %q", ErrNotFound, query)
	}
	return titles[0], nil
}

// RandomPage returns the title of a random main-namespace article.
func (c *Client) RandomPage(ctx context.Context) (string, error) {
	q := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"list":        {"random"},
		"rnnamespace": {"0"},
		"rnlimit":     {"1"},
	}
	raw, err := c.get(ctx, q)
	if err != nil {
		return "", err
	}

	var out struct {
		Query struct {
			Random []struct {
				Title string `json:"title"`
			} `json:"random"`
		} `json:"query"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("wiki random: %w", err)
	}
	if len(out.Query.Random) == 0 {
		return "", fmt.Errorf("%w: random pick returned nothing", ErrNotFound)
	}
	return out.Query.Random[0].Title, nil
}

// GetPage fetches the article intro and its outbound main-namespace links.
// Links that fail validLink are dropped; API order is preserved.
func (c *Client) GetPage(ctx context.Context, title string) (Page, error) {
	q := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"prop":        {"extracts|links"},
		"titles":      {title},
		"redirects":   {"1"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"plnamespace": {"0"},
		"pllimit":     {"max"},
	}
	raw, err := c.get(ctx, q)
	if err != nil {
		return Page{}, err
	}

	var out struct {
		Query struct {
			Pages map[string]struct {
				Title   string  `json:"title"`
				Extract string  `json:"extract"`
				Missing *string `json:"missing,omitempty"`
				Links   []struct {
					NS    int    `json:"ns"`
					Title string `json:"title"`
				} `json:"links"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Page{}, fmt.Errorf("wiki page: %w", err)
	}

	for id, p := range out.Query.Pages {
		if id == "-1" || p.Missing != nil {
			return Page{}, fmt.Errorf("%w: %q", ErrNotFound, title)
		}
		page := Page{Title: p.Title, Summary: strings.TrimSpace(p.Extract)}
		for _, l := range p.Links {
			if l.NS == 0 && validLink(l.Title, p.Title) {
				page.Links = append(page.Links, l.Title)
			}
		}
		return page, nil
	}
	return Page{}, fmt.Errorf("%w: %q", ErrNotFound, title)
}

// validLink drops self-links and the meta articles that would only
// waste a turn (disambiguation hubs, identifier stubs).
func validLink(title, pageTitle string) bool {
	if title == "" || title == pageTitle {
		return false
	}
	if strings.HasSuffix(title, "(disambiguation)") {
		return false
	}
	if strings.HasSuffix(title, "(identifier)") {
		return false
	}
	return true
}

func (c *Client) get(ctx context.Context, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiki %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
