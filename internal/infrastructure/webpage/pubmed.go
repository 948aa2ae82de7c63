package webpage

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/domain"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/ports"
)

const (
	abstractRuneLimit = 1200

	unknownTitle   = "unknown title"
	unknownJournal = "unknown"
	noAbstract     = "no abstract"
)

// PubMedReader scrapes a PubMed article page for the fields the summarizer
// needs. Missing fields fall back to fixed placeholders rather than failing.
type PubMedReader struct {
	client *http.Client
}

var _ ports.AbstractReader = (*PubMedReader)(nil)

// NewPubMedReader wires an HTTP client; pass nil for the default.
func NewPubMedReader(client *http.Client) *PubMedReader {
	if client == nil {
		client = defaultClient()
	}
	return &PubMedReader{client: client}
}

// Read fetches the article page and extracts heading, journal name and
// abstract text.
func (r *PubMedReader) Read(ctx context.Context, pageURL string) (domain.AbstractPage, error) {
	doc, err := fetchDocument(ctx, r.client, pageURL)
	if err != nil {
		return domain.AbstractPage{}, fmt.Errorf("fetch article: %w", err)
	}

	return domain.AbstractPage{
		Title:    headingOf(doc),
		Journal:  journalOf(doc),
		Abstract: abstractOf(doc),
	}, nil
}

func headingOf(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("h1.heading-title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		return unknownTitle
	}
	return strings.Join(strings.Fields(title), " ")
}

func abstractOf(doc *goquery.Document) string {
	for _, selector := range []string{"div.abstract-content", "#abstract", "div.abstract"} {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		html, err := sel.Html()
		if err != nil {
			continue
		}
		if text := cleanText(html); text != "" {
			return truncateRunes(text, abstractRuneLimit)
		}
	}
	return noAbstract
}

func journalOf(doc *goquery.Document) string {
	if name, ok := doc.Find(`meta[name="citation_journal_title"]`).First().Attr("content"); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}

	trigger := doc.Find("#full-view-journal-trigger").First()
	if title, ok := trigger.Attr("title"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if text := strings.TrimSpace(trigger.Text()); text != "" {
		return text
	}

	if text := strings.TrimSpace(doc.Find(".journal-actions-trigger").First().Text()); text != "" {
		return text
	}

	return unknownJournal
}
