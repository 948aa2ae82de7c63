package webpage

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/domain"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/ports"
)

const (
	// Shown in the record when no content container matched.
	fallbackBody = "本文を取得できませんでした。リンク先をご確認ください。"

	bodyRuneLimit = 4000
)

// bodyStrategy locates article text inside a parsed page. Strategies are
// tried in order; the first non-empty result wins.
type bodyStrategy struct {
	name    string
	extract func(doc *goquery.Document) string
}

func selectorStrategy(name, selector string) bodyStrategy {
	return bodyStrategy{
		name: name,
		extract: func(doc *goquery.Document) string {
			sel := doc.Find(selector).First()
			if sel.Length() == 0 {
				return ""
			}
			html, err := sel.Html()
			if err != nil {
				return ""
			}
			return cleanText(html)
		},
	}
}

func defaultBodyStrategies() []bodyStrategy {
	return []bodyStrategy{
		selectorStrategy("article", "article"),
		selectorStrategy("main", "main"),
		selectorStrategy("article-body", ".article-body, .article_body, .articleBody"),
		selectorStrategy("entry-content", ".entry-content, .post-content, .post_content"),
		selectorStrategy("content-id", "#content, #main-content, #article"),
	}
}

// Extractor scrapes an article page for an OpenGraph image and a best-effort
// body. Extraction failure is never fatal: callers always get a usable (if
// empty) result.
type Extractor struct {
	client     *http.Client
	strategies []bodyStrategy
	logger     *slog.Logger
}

var _ ports.PageExtractor = (*Extractor)(nil)

// NewExtractor wires an HTTP client; pass nil for the default 8s-timeout
// client.
func NewExtractor(client *http.Client, logger *slog.Logger) *Extractor {
	if client == nil {
		client = defaultClient()
	}
	return &Extractor{
		client:     client,
		strategies: defaultBodyStrategies(),
		logger:     logger,
	}
}

// Extract fetches the page and pulls out the og:image URL and body text.
// Body text is capped and a fixed fallback is returned when no content
// container matches.
func (e *Extractor) Extract(ctx context.Context, pageURL string) domain.PageContent {
	doc, err := fetchDocument(ctx, e.client, pageURL)
	if err != nil {
		e.debug("extract failed", "url", pageURL, "error", err)
		return domain.PageContent{}
	}

	content := domain.PageContent{Image: ogImage(doc)}

	for _, strategy := range e.strategies {
		if body := strategy.extract(doc); body != "" {
			e.debug("body extracted", "url", pageURL, "strategy", strategy.name)
			content.Body = truncateRunes(body, bodyRuneLimit)
			return content
		}
	}

	content.Body = fallbackBody
	return content
}

func ogImage(doc *goquery.Document) string {
	img, _ := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	return img
}

func (e *Extractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
