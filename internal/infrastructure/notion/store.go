// Package notion persists pipeline records into Notion databases. Each
// repository implements the query-then-create-on-miss dedupe gate; the two
// calls are not atomic against the API, so two overlapping runs can race and
// create duplicates.
package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
)

// Store wraps the shared API client the per-database repositories hang off.
type Store struct {
	client *notionapi.Client
}

// NewStore builds a Store from an integration token.
func NewStore(token string) *Store {
	return &Store{client: notionapi.NewClient(notionapi.Token(token))}
}

// News returns a repository bound to the news database.
func (s *Store) News(databaseID string) *NewsStore {
	return &NewsStore{client: s.client, database: notionapi.DatabaseID(databaseID)}
}

// Conferences returns a repository bound to the conference database.
func (s *Store) Conferences(databaseID string) *ConferenceStore {
	return &ConferenceStore{client: s.client, database: notionapi.DatabaseID(databaseID)}
}

// Questions returns a repository bound to the question database.
func (s *Store) Questions(databaseID string) *QuestionStore {
	return &QuestionStore{client: s.client, database: notionapi.DatabaseID(databaseID)}
}

// queryAll drains a database query through Notion's cursor pagination.
func queryAll(ctx context.Context, client *notionapi.Client, database notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var pages []notionapi.Page
	for {
		resp, err := client.Database.Query(ctx, database, req)
		if err != nil {
			return nil, fmt.Errorf("query database %s: %w", database, err)
		}
		pages = append(pages, resp.Results...)

		if !resp.HasMore {
			return pages, nil
		}
		req.StartCursor = resp.NextCursor
	}
}

func titleProperty(content string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Title: []notionapi.RichText{{Text: &notionapi.Text{Content: content}}},
	}
}

func richTextProperty(content string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: content}}},
	}
}

func plainText(parts []notionapi.RichText) string {
	var out string
	for _, part := range parts {
		out += part.PlainText
	}
	return out
}

func titleOf(page notionapi.Page, property string) string {
	if prop, ok := page.Properties[property].(*notionapi.TitleProperty); ok {
		return plainText(prop.Title)
	}
	return ""
}

func richTextOf(page notionapi.Page, property string) string {
	if prop, ok := page.Properties[property].(*notionapi.RichTextProperty); ok {
		return plainText(prop.RichText)
	}
	return ""
}

func urlOf(page notionapi.Page, property string) string {
	if prop, ok := page.Properties[property].(*notionapi.URLProperty); ok {
		return prop.URL
	}
	return ""
}

func checkboxOf(page notionapi.Page, property string) bool {
	if prop, ok := page.Properties[property].(*notionapi.CheckboxProperty); ok {
		return prop.Checkbox
	}
	return false
}
