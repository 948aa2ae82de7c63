package webpage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/domain"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/ports"
)

// Rows with fewer cells are navigation or header rows, not conference
// listings.
const minConferenceCells = 5

// ConferenceParser scrapes the conference listing page into one record per
// qualifying table row.
type ConferenceParser struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.ConferenceSource = (*ConferenceParser)(nil)

// NewConferenceParser wires an HTTP client; pass nil for the default.
func NewConferenceParser(client *http.Client, logger *slog.Logger) *ConferenceParser {
	if client == nil {
		client = defaultClient()
	}
	return &ConferenceParser{client: client, logger: logger}
}

// Fetch walks every table on the listing page and extracts name, link, date,
// venue and remarks from rows with enough cells. Relative links are resolved
// against the page URL. Rows lacking a name or a resolvable absolute link
// are discarded. Duplicates are allowed; dedupe happens at write time.
func (p *ConferenceParser) Fetch(ctx context.Context, listURL string) ([]domain.Conference, error) {
	base, err := url.Parse(listURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing url %s: %w", listURL, err)
	}

	doc, err := fetchDocument(ctx, p.client, listURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	var conferences []domain.Conference
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < minConferenceCells {
				return
			}

			nameCell := cells.Eq(1)
			name := strings.TrimSpace(nameCell.Text())
			href, _ := nameCell.Find("a").First().Attr("href")
			link := resolveLink(base, href)

			if name == "" || link == "" {
				return
			}

			conferences = append(conferences, domain.Conference{
				Name:    name,
				URL:     link,
				Date:    strings.TrimSpace(cells.Eq(2).Text()),
				Venue:   strings.TrimSpace(cells.Eq(3).Text()),
				Remarks: strings.TrimSpace(cells.Eq(4).Text()),
			})
		})
	})

	if p.logger != nil {
		p.logger.Debug("conference listing parsed", "url", listURL, "rows", len(conferences))
	}

	return conferences, nil
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	resolved, err := base.Parse(href)
	if err != nil || !resolved.IsAbs() {
		return ""
	}

	return resolved.String()
}
