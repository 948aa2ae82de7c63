package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/domain"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/ports"
)

// Property names in the question database.
const (
	propQuestionText   = "質問"
	propQuestionStatus = "ステータス"
)

// QuestionStore persists synthesized questions into the question database.
type QuestionStore struct {
	client   *notionapi.Client
	database notionapi.DatabaseID
}

var _ ports.QuestionRepository = (*QuestionStore)(nil)

// ExistsByText reports whether a page with the exact question text already
// exists.
func (s *QuestionStore) ExistsByText(ctx context.Context, text string) (bool, error) {
	resp, err := s.client.Database.Query(ctx, s.database, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: propQuestionText,
			RichText: &notionapi.TextFilterCondition{Equals: text},
		},
		PageSize: 1,
	})
	if err != nil {
		return false, fmt.Errorf("query question by text: %w", err)
	}

	return len(resp.Results) > 0, nil
}

// Create writes a new question page.
func (s *QuestionStore) Create(ctx context.Context, q domain.Question) error {
	properties := notionapi.Properties{
		propQuestionText: titleProperty(q.Text),
	}
	if q.Status != "" {
		properties[propQuestionStatus] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: q.Status},
		}
	}

	_, err := s.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: s.database,
		},
		Properties: properties,
	})
	if err != nil {
		return fmt.Errorf("create question page: %w", err)
	}

	return nil
}
