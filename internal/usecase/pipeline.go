package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/config"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/domain"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/filter"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/ports"
)

const (
	pubMedURLPart = "pubmed.ncbi.nlm.nih.gov"

	// Hard cap applied to model-returned summaries before writing.
	summaryRuneCap = 198

	pendingSummaryLimit = 20
	recentSummaryLimit  = 12
	minSummaryRunes     = 8
	retentionAge        = 7 * 24 * time.Hour
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// Nil fields disable the stages that depend on them.
type PipelineDeps struct {
	Feeds          []config.FeedConfig
	Source         ports.FeedSource
	Extractor      ports.PageExtractor
	Conferences    ports.ConferenceSource
	ConferenceURL  string
	Abstracts      ports.AbstractReader
	News           ports.NewsRepository
	ConferenceRepo ports.ConferenceRepository
	Questions      ports.QuestionRepository
	Completer      ports.Completer
	CompletionGate ports.Gate
	WriteGate      ports.Gate
	Classifier     filter.Classifier
	Logger         *slog.Logger
}

// Pipeline sequences the ingestion, enrichment and retention stages once per
// invocation.
type Pipeline struct {
	feeds          []config.FeedConfig
	source         ports.FeedSource
	extractor      ports.PageExtractor
	conferences    ports.ConferenceSource
	conferenceURL  string
	abstracts      ports.AbstractReader
	news           ports.NewsRepository
	conferenceRepo ports.ConferenceRepository
	questions      ports.QuestionRepository
	completer      ports.Completer
	completionGate ports.Gate
	writeGate      ports.Gate
	classifier     filter.Classifier
	logger         *slog.Logger

	now func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		feeds:          deps.Feeds,
		source:         deps.Source,
		extractor:      deps.Extractor,
		conferences:    deps.Conferences,
		conferenceURL:  deps.ConferenceURL,
		abstracts:      deps.Abstracts,
		news:           deps.News,
		conferenceRepo: deps.ConferenceRepo,
		questions:      deps.Questions,
		completer:      deps.Completer,
		completionGate: deps.CompletionGate,
		writeGate:      deps.WriteGate,
		classifier:     deps.Classifier,
		logger:         deps.Logger,
		now:            time.Now,
	}
}

// Run executes every stage in order. A stage failure is logged and collected
// but never prevents the remaining stages from running.
func (p *Pipeline) Run(ctx context.Context) error {
	stages := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"ingest-news", p.IngestNews},
		{"ingest-conferences", p.IngestConferences},
		{"summarize-abstracts", p.SummarizeAbstracts},
		{"sweep-expired", p.SweepExpired},
		{"synthesize-questions", p.SynthesizeQuestions},
	}

	var errs []error
	for _, stage := range stages {
		if err := stage.fn(ctx); err != nil {
			p.error("stage failed", "stage", stage.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", stage.name, err))
		}
	}

	return errors.Join(errs...)
}

// IngestNews polls each configured feed, classifies normalized titles and
// dedupe-writes admitted items with their scraped enrichment.
func (p *Pipeline) IngestNews(ctx context.Context) error {
	if p.source == nil || p.news == nil {
		return nil
	}

	for _, feed := range p.feeds {
		items, err := p.source.Fetch(ctx, feed.URL)
		if err != nil {
			p.error("fetch feed failed", "feed", feed.Name, "error", err)
			continue
		}
		p.debug("feed fetched", "feed", feed.Name, "items", len(items))

		for _, item := range items {
			title := filter.NormalizeTitle(item.RawTitle, feed.Name)
			if title == "" || !p.classifier.Admit(title) {
				continue
			}

			exists, err := p.news.ExistsByTitle(ctx, title)
			if err != nil {
				p.error("dedupe query failed", "title", title, "error", err)
				continue
			}
			if exists {
				continue
			}

			var content domain.PageContent
			if p.extractor != nil {
				content = p.extractor.Extract(ctx, item.Link)
			}
			if content.Image == "" {
				content.Image = item.Enclosure
			}

			rec := domain.NewsRecord{
				Title:      title,
				URL:        item.Link,
				Source:     feed.Name,
				CoverImage: content.Image,
				Body:       content.Body,
			}
			if err := p.news.Create(ctx, rec); err != nil {
				p.error("create news failed", "title", title, "error", err)
				continue
			}
			p.info("news record created", "title", title, "source", feed.Name)

			if err := p.wait(ctx, p.writeGate); err != nil {
				return err
			}
		}
	}

	return nil
}

// IngestConferences scrapes the listing page and dedupe-writes each row on
// its URL. The stage is disabled when no conference database is configured.
func (p *Pipeline) IngestConferences(ctx context.Context) error {
	if p.conferences == nil || p.conferenceRepo == nil || p.conferenceURL == "" {
		return nil
	}

	rows, err := p.conferences.Fetch(ctx, p.conferenceURL)
	if err != nil {
		return fmt.Errorf("fetch conference listing: %w", err)
	}

	for _, conf := range rows {
		exists, err := p.conferenceRepo.ExistsByURL(ctx, conf.URL)
		if err != nil {
			p.error("conference dedupe query failed", "url", conf.URL, "error", err)
			continue
		}
		if exists {
			continue
		}

		if err := p.conferenceRepo.Create(ctx, conf); err != nil {
			p.error("create conference failed", "name", conf.Name, "error", err)
			continue
		}
		p.info("conference registered", "name", conf.Name, "date", conf.Date)
	}

	return nil
}

// SummarizeAbstracts enriches persisted PubMed records that have no
// translation yet. Each record is processed independently; a failure leaves
// the record untouched for a future run to retry.
func (p *Pipeline) SummarizeAbstracts(ctx context.Context) error {
	if p.news == nil || p.abstracts == nil || p.completer == nil {
		return nil
	}

	records, err := p.news.PendingSummaries(ctx, pubMedURLPart, pendingSummaryLimit)
	if err != nil {
		return fmt.Errorf("load pending summaries: %w", err)
	}
	p.debug("summarizing abstracts", "count", len(records))

	for _, rec := range records {
		page, err := p.abstracts.Read(ctx, rec.URL)
		if err != nil {
			p.error("read abstract failed", "url", rec.URL, "error", err)
			continue
		}

		if err := p.wait(ctx, p.completionGate); err != nil {
			return err
		}

		raw, err := p.completer.Complete(ctx, summaryPrompt(page))
		if err != nil {
			p.error("summary completion failed", "url", rec.URL, "error", err)
			continue
		}

		var payload domain.SummaryPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			p.error("summary response not parseable, will retry next run", "url", rec.URL, "error", err)
			continue
		}
		payload.Summary = truncateRunes(payload.Summary, summaryRuneCap)

		if err := p.news.UpdateSummary(ctx, rec.PageID, payload); err != nil {
			p.error("update summary failed", "page", rec.PageID, "error", err)
			continue
		}
		p.info("abstract summarized", "title", payload.TranslatedTitle)
	}

	return nil
}

// SweepExpired archives news records flagged for deletion and created at or
// before the retention threshold.
func (p *Pipeline) SweepExpired(ctx context.Context) error {
	if p.news == nil {
		return nil
	}

	cutoff := p.now().Add(-retentionAge)
	records, err := p.news.Expired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("load expired records: %w", err)
	}

	for _, rec := range records {
		if err := p.news.Archive(ctx, rec.PageID); err != nil {
			p.error("archive failed", "page", rec.PageID, "error", err)
			continue
		}
		p.info("record archived", "title", rec.Title)
	}

	return nil
}

// SynthesizeQuestions builds one prompt from the latest summaries and
// dedupe-writes each proposed question. Disabled when no question database
// is configured.
func (p *Pipeline) SynthesizeQuestions(ctx context.Context) error {
	if p.news == nil || p.questions == nil || p.completer == nil {
		return nil
	}

	records, err := p.news.RecentSummaries(ctx, pubMedURLPart, recentSummaryLimit)
	if err != nil {
		return fmt.Errorf("load recent summaries: %w", err)
	}

	var bullets []string
	for _, rec := range records {
		if len([]rune(rec.Summary)) > minSummaryRunes {
			bullets = append(bullets, fmt.Sprintf("- %s: %s", rec.TranslatedTitle, rec.Summary))
		}
	}
	if len(bullets) == 0 {
		return nil
	}

	if err := p.wait(ctx, p.completionGate); err != nil {
		return err
	}

	raw, err := p.completer.Complete(ctx, questionPrompt(bullets))
	if err != nil {
		return fmt.Errorf("question completion: %w", err)
	}

	var decoded struct {
		Actions []struct {
			Q string `json:"q"`
		} `json:"actions"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return fmt.Errorf("parse question response: %w", err)
	}

	for _, action := range decoded.Actions {
		text := strings.TrimSpace(action.Q)
		if text == "" {
			continue
		}

		exists, err := p.questions.ExistsByText(ctx, text)
		if err != nil {
			p.error("question dedupe query failed", "error", err)
			continue
		}
		if exists {
			continue
		}

		if err := p.questions.Create(ctx, domain.Question{Text: text, Status: "未着手"}); err != nil {
			p.error("create question failed", "error", err)
			continue
		}
		p.info("question registered", "question", text)
	}

	return nil
}

func (p *Pipeline) wait(ctx context.Context, gate ports.Gate) error {
	if gate == nil {
		return nil
	}
	if err := gate.Wait(ctx); err != nil {
		return fmt.Errorf("gate wait: %w", err)
	}
	return nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) error(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
