package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/config"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/filter"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/infrastructure/feed"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/infrastructure/llm"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/infrastructure/notion"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/infrastructure/webpage"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/logging"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/usecase"
)

// Throttles: one second between news writes, twenty-five seconds between
// completion calls. The completion gate is a self-imposed rate limit, not a
// reactive backoff.
const (
	writeInterval      = time.Second
	completionInterval = 25 * time.Second
)

// Application wires configuration to the pipeline.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance. Optional Notion database IDs
// left empty disable the corresponding stages.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	store := notion.NewStore(cfg.Notion.Token)

	deps := usecase.PipelineDeps{
		Feeds:      cfg.Feeds,
		Source:     feed.NewSource(""),
		Extractor:  webpage.NewExtractor(nil, baseLogger.With("component", "extractor")),
		News:       store.News(cfg.Notion.NewsDB),
		WriteGate:  rate.NewLimiter(rate.Every(writeInterval), 1),
		Classifier: filter.NewClassifier(cfg.Keywords.Includes, cfg.Keywords.Excludes),
		Logger:     baseLogger.With("component", "pipeline"),
	}

	if cfg.Notion.ConferenceDB != "" && cfg.Conference.URL != "" {
		deps.Conferences = webpage.NewConferenceParser(nil, baseLogger.With("component", "conference"))
		deps.ConferenceURL = cfg.Conference.URL
		deps.ConferenceRepo = store.Conferences(cfg.Notion.ConferenceDB)
	}

	if cfg.OpenAI.APIKey != "" {
		deps.Abstracts = webpage.NewPubMedReader(nil)
		deps.Completer = llm.NewOpenAIClient(cfg.OpenAI)
		deps.CompletionGate = rate.NewLimiter(rate.Every(completionInterval), 1)

		if cfg.Notion.QuestionDB != "" {
			deps.Questions = store.Questions(cfg.Notion.QuestionDB)
		}
	}

	return &Application{cfg: cfg, pipeline: usecase.NewPipeline(deps)}
}

// Run performs a single pipeline execution; scheduling is left to cron or
// whatever triggers the process.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	return a.pipeline.Run(ctx)
}
