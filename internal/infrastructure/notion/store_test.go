package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jomei/notionapi"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/domain"
)

// rewriteTransport redirects the client's fixed api.notion.com base URL to a
// local test server.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *notionapi.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}

	return notionapi.NewClient("secret_test",
		notionapi.WithHTTPClient(&http.Client{Transport: rewriteTransport{target: target}}))
}

const emptyQueryResponse = `{"object":"list","results":[],"next_cursor":"","has_more":false}`

const minimalPage = `{"object":"page","id":"11111111-2222-3333-4444-555555555555",` +
	`"created_time":"2026-01-01T00:00:00.000Z","last_edited_time":"2026-01-01T00:00:00.000Z",` +
	`"parent":{"type":"database_id","database_id":"news-db"},"archived":false,` +
	`"properties":{},"url":"https://www.notion.so/x"}`

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return body
}

func dig(t *testing.T, m map[string]any, keys ...string) any {
	t.Helper()

	var current any = m
	for _, key := range keys {
		obj, ok := current.(map[string]any)
		if !ok {
			t.Fatalf("no object at %q in %v", key, current)
		}
		current = obj[key]
	}
	return current
}

func TestNewsStoreExistsByTitleFilter(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "databases/news-db/query") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		captured = decodeBody(t, r)
		_, _ = w.Write([]byte(`{"object":"list","results":[` + minimalPage + `],"next_cursor":"","has_more":false}`))
	})

	store := &NewsStore{client: client, database: "news-db"}
	exists, err := store.ExistsByTitle(context.Background(), "AI新ツール登場")
	if err != nil {
		t.Fatalf("ExistsByTitle error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true for a non-empty result")
	}

	if got := dig(t, captured, "filter", "property"); got != propNewsTitle {
		t.Fatalf("unexpected filter property: %v", got)
	}
	if got := dig(t, captured, "filter", "rich_text", "equals"); got != "AI新ツール登場" {
		t.Fatalf("unexpected rich_text.equals: %v", got)
	}
}

func TestNewsStoreExpiredFilter(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = decodeBody(t, r)
		_, _ = w.Write([]byte(emptyQueryResponse))
	})

	store := &NewsStore{client: client, database: "news-db"}
	cutoff := time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC)
	if _, err := store.Expired(context.Background(), cutoff); err != nil {
		t.Fatalf("Expired error: %v", err)
	}

	and, ok := dig(t, captured, "filter", "and").([]any)
	if !ok || len(and) != 2 {
		t.Fatalf("expected a two-clause and filter, got %v", dig(t, captured, "filter"))
	}

	checkbox := and[0].(map[string]any)
	if checkbox["property"] != propNewsDelete {
		t.Fatalf("unexpected checkbox property: %v", checkbox["property"])
	}
	if dig(t, checkbox, "checkbox", "equals") != true {
		t.Fatalf("expected checkbox.equals=true, got %v", checkbox)
	}

	timestamp := and[1].(map[string]any)
	if timestamp["timestamp"] != "created_time" {
		t.Fatalf("expected created_time timestamp filter, got %v", timestamp)
	}
	onOrBefore, _ := dig(t, timestamp, "created_time", "on_or_before").(string)
	if !strings.HasPrefix(onOrBefore, "2026-08-25") {
		t.Fatalf("unexpected on_or_before: %q", onOrBefore)
	}
}

func TestNewsStoreCreatePayload(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/pages") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		captured = decodeBody(t, r)
		_, _ = w.Write([]byte(minimalPage))
	})

	store := &NewsStore{client: client, database: "news-db"}
	err := store.Create(context.Background(), domain.NewsRecord{
		Title:      "AI新ツール登場",
		URL:        "https://example.org/news/ai",
		Source:     "テスト",
		CoverImage: "https://img.example.org/a.png",
		Body:       strings.Repeat("本", blockRuneLimit+10),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if got := dig(t, captured, "parent", "database_id"); got != "news-db" {
		t.Fatalf("unexpected parent database: %v", got)
	}
	title := dig(t, captured, "properties", propNewsTitle, "title").([]any)
	if got := dig(t, title[0].(map[string]any), "text", "content"); got != "AI新ツール登場" {
		t.Fatalf("unexpected title content: %v", got)
	}
	if got := dig(t, captured, "properties", propNewsURL, "url"); got != "https://example.org/news/ai" {
		t.Fatalf("unexpected url property: %v", got)
	}

	// One image block plus two paragraph chunks for an over-limit body.
	children := captured["children"].([]any)
	if len(children) != 3 {
		t.Fatalf("expected 3 child blocks, got %d", len(children))
	}
	if got := dig(t, children[0].(map[string]any), "image", "external", "url"); got != "https://img.example.org/a.png" {
		t.Fatalf("unexpected image block: %v", got)
	}
	paragraph := dig(t, children[1].(map[string]any), "paragraph", "rich_text").([]any)
	chunk, _ := dig(t, paragraph[0].(map[string]any), "text", "content").(string)
	if len([]rune(chunk)) != blockRuneLimit {
		t.Fatalf("expected first paragraph chunk of %d runes, got %d", blockRuneLimit, len([]rune(chunk)))
	}
}

func TestConferenceStoreCreatePayload(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = decodeBody(t, r)
		_, _ = w.Write([]byte(minimalPage))
	})

	store := &ConferenceStore{client: client, database: "conf-db"}
	err := store.Create(context.Background(), domain.Conference{
		Name:    "第10回大会",
		URL:     "https://example.org/detail/123.html",
		Date:    "2026年3月1日",
		Venue:   "東京国際フォーラム",
		Remarks: "演題募集中",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	name := dig(t, captured, "properties", propConfName, "title").([]any)
	if got := dig(t, name[0].(map[string]any), "text", "content"); got != "第10回大会" {
		t.Fatalf("unexpected name content: %v", got)
	}
	if got := dig(t, captured, "properties", propConfURL, "url"); got != "https://example.org/detail/123.html" {
		t.Fatalf("unexpected url property: %v", got)
	}
	date := dig(t, captured, "properties", propConfDate, "rich_text").([]any)
	if got := dig(t, date[0].(map[string]any), "text", "content"); got != "2026年3月1日" {
		t.Fatalf("unexpected date content: %v", got)
	}
}

func TestQuestionStoreExistsByTextFilter(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = decodeBody(t, r)
		_, _ = w.Write([]byte(emptyQueryResponse))
	})

	store := &QuestionStore{client: client, database: "question-db"}
	exists, err := store.ExistsByText(context.Background(), "歩行訓練の頻度は？")
	if err != nil {
		t.Fatalf("ExistsByText error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for an empty result")
	}

	if got := dig(t, captured, "filter", "property"); got != propQuestionText {
		t.Fatalf("unexpected filter property: %v", got)
	}
	if got := dig(t, captured, "filter", "rich_text", "equals"); got != "歩行訓練の頻度は？" {
		t.Fatalf("unexpected rich_text.equals: %v", got)
	}
}
