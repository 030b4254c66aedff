package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/arokua/job-hunter/internal/callback"
	"github.com/arokua/job-hunter/internal/notify"
	"github.com/arokua/job-hunter/internal/pipeline"
	"github.com/arokua/job-hunter/internal/prefs"
	"github.com/arokua/job-hunter/internal/store"
	"github.com/arokua/job-hunter/pkg/jobspy"
	"github.com/arokua/job-hunter/pkg/mailer"
)

// pipelineEnv holds the initialized collaborators and the pipeline needed by
// the serve/run/submissions commands.
type pipelineEnv struct {
	Store    store.Store // nil when recording is disabled
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens the configured submission record store, or returns nil
// when the driver is empty.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "":
		return nil, nil
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initPipeline sets up the store and collaborator clients and builds the
// Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if st != nil {
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
	}

	pace := time.Duration(cfg.Scrape.PaceSeconds) * time.Second
	scraperOpts := []jobspy.Option{jobspy.WithBaseURL(cfg.Scrape.BaseURL)}
	if pace > 0 {
		scraperOpts = append(scraperOpts, jobspy.WithLimiter(rate.NewLimiter(rate.Every(pace), 1)))
	}
	scraper := jobspy.NewClient(cfg.Scrape.APIKey, scraperOpts...)

	notifier := notify.New(mailer.NewClient(cfg.Email))
	reporter := callback.New(cfg.Worker.CallbackURL, cfg.Worker.Secret)

	opts := []pipeline.Option{pipeline.WithSites(cfg.Scrape.Sites)}
	if len(cfg.Locations) > 0 {
		opts = append(opts, pipeline.WithResolver(prefs.NewResolverWithTable(cfg.Locations)))
	}
	if st != nil {
		opts = append(opts, pipeline.WithStore(st))
	}

	return &pipelineEnv{
		Store:    st,
		Pipeline: pipeline.New(scraper, notifier, reporter, opts...),
	}, nil
}
