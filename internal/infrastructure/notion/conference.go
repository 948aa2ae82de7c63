package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/domain"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/ports"
)

// Property names in the conference database.
const (
	propConfName    = "大会名称"
	propConfURL     = "URL"
	propConfDate    = "開催年月日"
	propConfVenue   = "会場"
	propConfRemarks = "備考"
)

// ConferenceStore persists conference rows into the conference database.
type ConferenceStore struct {
	client   *notionapi.Client
	database notionapi.DatabaseID
}

var _ ports.ConferenceRepository = (*ConferenceStore)(nil)

// ExistsByURL reports whether a page with the exact URL already exists.
func (s *ConferenceStore) ExistsByURL(ctx context.Context, pageURL string) (bool, error) {
	resp, err := s.client.Database.Query(ctx, s.database, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: propConfURL,
			RichText: &notionapi.TextFilterCondition{Equals: pageURL},
		},
		PageSize: 1,
	})
	if err != nil {
		return false, fmt.Errorf("query conference by url: %w", err)
	}

	return len(resp.Results) > 0, nil
}

// Create writes a new conference page.
func (s *ConferenceStore) Create(ctx context.Context, conf domain.Conference) error {
	_, err := s.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: s.database,
		},
		Properties: notionapi.Properties{
			propConfName:    titleProperty(conf.Name),
			propConfURL:     notionapi.URLProperty{URL: conf.URL},
			propConfDate:    richTextProperty(conf.Date),
			propConfVenue:   richTextProperty(conf.Venue),
			propConfRemarks: richTextProperty(conf.Remarks),
		},
	})
	if err != nil {
		return fmt.Errorf("create conference page: %w", err)
	}

	return nil
}
