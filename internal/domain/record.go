package domain

import "time"

// FeedItem is a single entry pulled from an RSS feed, consumed immediately
// after the feed is parsed.
type FeedItem struct {
	RawTitle  string
	Link      string
	Enclosure string
}

// PageContent is the best-effort enrichment scraped from an article page.
// Both fields may be empty; extraction failure is never fatal.
type PageContent struct {
	Image string
	Body  string
}

// NewsRecord is a curated news page in the news database. Title acts as the
// unique soft-key for deduplication.
type NewsRecord struct {
	PageID          string
	Title           string
	URL             string
	Source          string
	CoverImage      string
	Body            string
	TranslatedTitle string
	Journal         string
	Summary         string
	DeleteFlag      bool
	CreatedAt       time.Time
}

// Conference is one row scraped from the conference listing page. URL is the
// unique key.
type Conference struct {
	Name    string
	URL     string
	Date    string
	Venue   string
	Remarks string
}

// Question is a synthesized discussion prompt, unique on its exact text.
type Question struct {
	Text   string
	Status string
}

// AbstractPage holds the fields scraped from a PubMed article page before
// summarization.
type AbstractPage struct {
	Title    string
	Journal  string
	Abstract string
}

// SummaryPayload is the JSON object the completion endpoint is asked to
// return for an abstract. Discarded once written back to the news record.
type SummaryPayload struct {
	TranslatedTitle string `json:"translatedTitle"`
	Journal         string `json:"journal"`
	Summary         string `json:"summary"`
}
