package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/vats98754/auto-kg/backend/pkg/common"
)

const (
	defaultWikiBaseURL = "https://en.wikipedia.org"
	mediaWikiUserAgent = "auto-kg/1.0 (https://github.com/vats98754/auto-kg)"

	maxSummaryLen = 1000
	maxContentLen = 5000
	maxPageLinks  = 50
	maxCategories = 10
)

// MediaWikiFetcher fetches pages through the MediaWiki query API.
type MediaWikiFetcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewMediaWikiFetcherParams configures a MediaWikiFetcher. An empty
// BaseURL targets English Wikipedia.
type NewMediaWikiFetcherParams struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewMediaWikiFetcher(params NewMediaWikiFetcherParams) *MediaWikiFetcher {
	f := &MediaWikiFetcher{
		baseURL:    strings.TrimRight(params.BaseURL, "/"),
		httpClient: params.HTTPClient,
	}
	if f.baseURL == "" {
		f.baseURL = defaultWikiBaseURL
	}
	if f.httpClient == nil {
		f.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return f
}

type mediaWikiPage struct {
	Title   string `json:"title"`
	Missing bool   `json:"missing"`
	Extract string `json:"extract"`
	FullURL string `json:"fullurl"`
	Links   []struct {
		Title string `json:"title"`
	} `json:"links"`
	Categories []struct {
		Title string `json:"title"`
	} `json:"categories"`
}

type mediaWikiResponse struct {
	Query struct {
		Pages []mediaWikiPage `json:"pages"`
	} `json:"query"`
}

// Fetch retrieves one page with its extract, outgoing article links and
// categories in a single API call.
func (f *MediaWikiFetcher) Fetch(ctx context.Context, title string) (*Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: empty page title", common.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("redirects", "1")
	params.Set("prop", "extracts|links|categories|info")
	params.Set("inprop", "url")
	params.Set("plnamespace", "0")
	params.Set("pllimit", fmt.Sprint(maxPageLinks))
	params.Set("cllimit", fmt.Sprint(maxCategories))
	params.Set("titles", title)

	endpoint := f.baseURL + "/w/api.php?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", mediaWikiUserAgent)

	res, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %q: %v", common.ErrUpstreamUnavailable, title, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %q: status %d", common.ErrUpstreamUnavailable, title, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response for %q: %v", common.ErrUpstreamUnavailable, title, err)
	}

	var decoded mediaWikiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response for %q: %w", title, err)
	}
	if len(decoded.Query.Pages) == 0 || decoded.Query.Pages[0].Missing {
		return nil, fmt.Errorf("page %q: %w", title, common.ErrNotFound)
	}

	return pageFromAPI(decoded.Query.Pages[0]), nil
}

func pageFromAPI(raw mediaWikiPage) *Page {
	text := StripHTML(raw.Extract)
	page := &Page{
		Title:   raw.Title,
		URL:     raw.FullURL,
		Summary: truncate(firstParagraph(text), maxSummaryLen),
		Content: truncate(text, maxContentLen),
	}
	for _, link := range raw.Links {
		page.Links = append(page.Links, link.Title)
	}
	for _, category := range raw.Categories {
		page.Categories = append(page.Categories, strings.TrimPrefix(category.Title, "Category:"))
	}
	return page
}

// StripHTML flattens an HTML fragment to its text content, keeping
// paragraph breaks.
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6":
				sb.WriteString("\n")
			}
		}
	}
	walk(root)

	lines := strings.Split(sb.String(), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}

func firstParagraph(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
