package ports

import (
	"context"
	"time"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/domain"
)

// FeedSource pulls items from a single RSS feed URL.
type FeedSource interface {
	Fetch(ctx context.Context, feedURL string) ([]domain.FeedItem, error)
}

// PageExtractor scrapes an article page for a cover image and body text.
// Implementations never fail the pipeline: on any error they return an
// empty PageContent.
type PageExtractor interface {
	Extract(ctx context.Context, pageURL string) domain.PageContent
}

// ConferenceSource scrapes the conference listing page into structured rows.
type ConferenceSource interface {
	Fetch(ctx context.Context, listURL string) ([]domain.Conference, error)
}

// AbstractReader scrapes a PubMed article page for title, journal and
// abstract text.
type AbstractReader interface {
	Read(ctx context.Context, pageURL string) (domain.AbstractPage, error)
}

// NewsRepository persists news records and answers the dedupe queries the
// pipeline gates its writes on.
type NewsRepository interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Create(ctx context.Context, rec domain.NewsRecord) error
	// PendingSummaries returns records whose URL contains urlPart and whose
	// translated-title field is still empty.
	PendingSummaries(ctx context.Context, urlPart string, limit int) ([]domain.NewsRecord, error)
	UpdateSummary(ctx context.Context, pageID string, payload domain.SummaryPayload) error
	// Expired returns records flagged for deletion and created on or before
	// the cutoff.
	Expired(ctx context.Context, cutoff time.Time) ([]domain.NewsRecord, error)
	Archive(ctx context.Context, pageID string) error
	// RecentSummaries returns the most recently created records whose URL
	// contains urlPart and whose summary field is non-empty.
	RecentSummaries(ctx context.Context, urlPart string, limit int) ([]domain.NewsRecord, error)
}

// ConferenceRepository persists conference rows, deduplicated on URL.
type ConferenceRepository interface {
	ExistsByURL(ctx context.Context, pageURL string) (bool, error)
	Create(ctx context.Context, conf domain.Conference) error
}

// QuestionRepository persists synthesized questions, deduplicated on the
// exact question text.
type QuestionRepository interface {
	ExistsByText(ctx context.Context, text string) (bool, error)
	Create(ctx context.Context, q domain.Question) error
}

// Completer sends one prompt to a language-model completion endpoint and
// returns the raw text of the reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Gate blocks until the next call is allowed. *rate.Limiter satisfies it;
// tests substitute a zero-delay gate.
type Gate interface {
	Wait(ctx context.Context) error
}
