package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/domain"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/ports"
)

// Property names in the news database.
const (
	propNewsTitle      = "タイトル"
	propNewsURL        = "URL"
	propNewsSource     = "ソース"
	propNewsTranslated = "翻訳タイトル"
	propNewsJournal    = "ジャーナル"
	propNewsSummary    = "要約"
	propNewsDelete     = "削除"
)

// Notion rejects rich-text blocks above this many characters, so body text
// is split into paragraph blocks before persisting.
const blockRuneLimit = 2000

// NewsStore persists news records into the news database.
type NewsStore struct {
	client   *notionapi.Client
	database notionapi.DatabaseID
}

var _ ports.NewsRepository = (*NewsStore)(nil)

// ExistsByTitle reports whether a page with the exact title already exists.
func (s *NewsStore) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	resp, err := s.client.Database.Query(ctx, s.database, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: propNewsTitle,
			RichText: &notionapi.TextFilterCondition{Equals: title},
		},
		PageSize: 1,
	})
	if err != nil {
		return false, fmt.Errorf("query news by title: %w", err)
	}

	return len(resp.Results) > 0, nil
}

// Create writes a new page with the cover image and body chunks as child
// blocks.
func (s *NewsStore) Create(ctx context.Context, rec domain.NewsRecord) error {
	properties := notionapi.Properties{
		propNewsTitle:  titleProperty(rec.Title),
		propNewsURL:    notionapi.URLProperty{URL: rec.URL},
		propNewsSource: richTextProperty(rec.Source),
	}

	var children []notionapi.Block
	if rec.CoverImage != "" {
		children = append(children, notionapi.ImageBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeImage,
			},
			Image: notionapi.Image{
				Type:     notionapi.FileTypeExternal,
				External: &notionapi.FileObject{URL: rec.CoverImage},
			},
		})
	}
	for _, chunk := range chunkRunes(rec.Body, blockRuneLimit) {
		children = append(children, notionapi.ParagraphBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeParagraph,
			},
			Paragraph: notionapi.Paragraph{
				RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: chunk}}},
			},
		})
	}

	_, err := s.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: s.database,
		},
		Properties: properties,
		Children:   children,
	})
	if err != nil {
		return fmt.Errorf("create news page: %w", err)
	}

	return nil
}

// PendingSummaries returns records whose URL contains urlPart and whose
// translated-title field has not been filled yet.
func (s *NewsStore) PendingSummaries(ctx context.Context, urlPart string, limit int) ([]domain.NewsRecord, error) {
	resp, err := s.client.Database.Query(ctx, s.database, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.AndCompoundFilter{
			notionapi.PropertyFilter{
				Property: propNewsURL,
				RichText: &notionapi.TextFilterCondition{Contains: urlPart},
			},
			notionapi.PropertyFilter{
				Property: propNewsTranslated,
				RichText: &notionapi.TextFilterCondition{IsEmpty: true},
			},
		},
		PageSize: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("query pending summaries: %w", err)
	}

	return toNewsRecords(resp.Results), nil
}

// UpdateSummary fills the PubMed enrichment fields on an existing page.
func (s *NewsStore) UpdateSummary(ctx context.Context, pageID string, payload domain.SummaryPayload) error {
	_, err := s.client.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			propNewsTranslated: richTextProperty(payload.TranslatedTitle),
			propNewsJournal:    richTextProperty(payload.Journal),
			propNewsSummary:    richTextProperty(payload.Summary),
		},
	})
	if err != nil {
		return fmt.Errorf("update summary %s: %w", pageID, err)
	}

	return nil
}

// Expired returns records flagged for deletion and created on or before the
// cutoff, draining pagination so arbitrarily large result sets are covered.
func (s *NewsStore) Expired(ctx context.Context, cutoff time.Time) ([]domain.NewsRecord, error) {
	onOrBefore := notionapi.Date(cutoff)
	pages, err := queryAll(ctx, s.client, s.database, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.AndCompoundFilter{
			notionapi.PropertyFilter{
				Property: propNewsDelete,
				Checkbox: &notionapi.CheckboxFilterCondition{Equals: true},
			},
			notionapi.TimestampFilter{
				Timestamp:   notionapi.TimestampCreated,
				CreatedTime: &notionapi.DateFilterCondition{OnOrBefore: &onOrBefore},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query expired news: %w", err)
	}

	return toNewsRecords(pages), nil
}

// Archive soft-deletes the page.
func (s *NewsStore) Archive(ctx context.Context, pageID string) error {
	_, err := s.client.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{},
		Archived:   true,
	})
	if err != nil {
		return fmt.Errorf("archive page %s: %w", pageID, err)
	}

	return nil
}

// RecentSummaries returns the most recently created records whose URL
// contains urlPart and whose summary field is non-empty, newest first.
func (s *NewsStore) RecentSummaries(ctx context.Context, urlPart string, limit int) ([]domain.NewsRecord, error) {
	resp, err := s.client.Database.Query(ctx, s.database, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.AndCompoundFilter{
			notionapi.PropertyFilter{
				Property: propNewsURL,
				RichText: &notionapi.TextFilterCondition{Contains: urlPart},
			},
			notionapi.PropertyFilter{
				Property: propNewsSummary,
				RichText: &notionapi.TextFilterCondition{IsNotEmpty: true},
			},
		},
		Sorts: []notionapi.SortObject{{
			Timestamp: notionapi.TimestampCreated,
			Direction: notionapi.SortOrderDESC,
		}},
		PageSize: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("query recent summaries: %w", err)
	}

	return toNewsRecords(resp.Results), nil
}

func toNewsRecords(pages []notionapi.Page) []domain.NewsRecord {
	records := make([]domain.NewsRecord, 0, len(pages))
	for _, page := range pages {
		records = append(records, domain.NewsRecord{
			PageID:          string(page.ID),
			Title:           titleOf(page, propNewsTitle),
			URL:             urlOf(page, propNewsURL),
			Source:          richTextOf(page, propNewsSource),
			TranslatedTitle: richTextOf(page, propNewsTranslated),
			Journal:         richTextOf(page, propNewsJournal),
			Summary:         richTextOf(page, propNewsSummary),
			DeleteFlag:      checkboxOf(page, propNewsDelete),
			CreatedAt:       page.CreatedTime,
		})
	}
	return records
}
