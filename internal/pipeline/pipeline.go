// Package pipeline orchestrates the scrape, filter, score, notify, and
// report sequence for one submission, guaranteeing exactly one terminal
// outcome per run.
package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arokua/job-hunter/internal/callback"
	"github.com/arokua/job-hunter/internal/model"
	"github.com/arokua/job-hunter/internal/prefs"
	"github.com/arokua/job-hunter/internal/profile"
	"github.com/arokua/job-hunter/internal/scorer"
	"github.com/arokua/job-hunter/internal/store"
	"github.com/arokua/job-hunter/pkg/jobspy"
)

// Notifier is the email outcome collaborator.
type Notifier interface {
	SendDigest(ctx context.Context, to string, jobs []model.Job) error
	SendEmptyNotice(ctx context.Context, to string) error
}

// Pipeline drives one submission from scrape to terminal report.
type Pipeline struct {
	scraper  jobspy.Client
	notifier Notifier
	reporter callback.Reporter
	store    store.Store // nil disables terminal-state recording
	resolver *prefs.Resolver
	sites    []string
	now      func() time.Time
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithStore enables terminal-state recording.
func WithStore(st store.Store) Option {
	return func(p *Pipeline) {
		p.store = st
	}
}

// WithResolver overrides the preference resolver, for deployments that
// configure their own canonical location table.
func WithResolver(r *prefs.Resolver) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithSites overrides the scrape site list (default: indeed only).
func WithSites(sites []string) Option {
	return func(p *Pipeline) {
		if len(sites) > 0 {
			p.sites = sites
		}
	}
}

// WithClock fixes the pipeline clock (for testing).
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a Pipeline with its collaborators.
func New(scraper jobspy.Client, notifier Notifier, reporter callback.Reporter, opts ...Option) *Pipeline {
	p := &Pipeline{
		scraper:  scraper,
		notifier: notifier,
		reporter: reporter,
		resolver: prefs.NewResolver(),
		sites:    []string{"indeed"},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline for one submission and returns its terminal
// outcome. Every collaborator failure inside the scrape/filter/score/notify
// sequence is converted to a failed outcome; the callback report is attempted
// exactly once, after notification, regardless of which branch terminated.
func (p *Pipeline) Run(ctx context.Context, sub model.Submission) model.Outcome {
	log := zap.L().With(zap.String("submission_id", sub.SubmissionID))
	log.Info("pipeline: starting scrape job", zap.String("email", sub.Email))

	outcome := p.execute(ctx, sub, log)

	if outcome.Status == model.StatusFailed {
		log.Error("pipeline: scrape job failed", zap.String("error", outcome.Error))
	}

	p.record(ctx, outcome, log)

	// Callback delivery is best-effort and never alters the outcome.
	if err := p.reporter.Report(ctx, outcome); err != nil {
		log.Error("pipeline: callback failed", zap.Error(err))
	}

	return outcome
}

// execute runs adapt, scrape, filter, score, and notify, returning the
// outcome to report.
func (p *Pipeline) execute(ctx context.Context, sub model.Submission, log *zap.Logger) model.Outcome {
	// 1. Adapt profile and resolve preferences.
	prof := profile.Adapt(sub.Profile)
	log.Info("pipeline: profile adapted",
		zap.Int("skills", len(prof.Skills)),
		zap.Int("titles", len(prof.Titles)),
		zap.Int("keywords", len(prof.Keywords)),
	)

	sub.Preferences.ApplyDefaults()
	locations := p.resolver.ResolveLocations(sub.Preferences.Locations)
	roles := p.resolver.ResolveRoles(sub.Preferences.Roles)

	// 2. Scrape.
	log.Info("pipeline: scraping",
		zap.Int("locations", len(locations)),
		zap.Int("roles", len(roles)),
	)
	rows, err := p.scraper.ScrapeAll(ctx, locations, roles, jobspy.SearchDefaults{
		Sites:         p.sites,
		ResultsWanted: sub.Preferences.ResultsPerSearch,
		HoursOld:      sub.Preferences.HoursOld,
		JobType:       "", // unfiltered
	})
	if err != nil {
		return model.Failed(sub.SubmissionID, eris.Wrap(err, "scrape"))
	}

	jobs := toModelJobs(rows)

	// Empty scrape is a completed outcome, not a failure.
	if len(jobs) == 0 {
		log.Warn("pipeline: no jobs found")
		if err := p.notifier.SendEmptyNotice(ctx, sub.Email); err != nil {
			log.Error("pipeline: empty-notice email failed", zap.Error(err))
		}
		return model.Completed(sub.SubmissionID, 0)
	}

	// 3. Geo-filter, skipped when no row carries location data. A set that
	// empties out here still takes the digest path, as a "no strong matches"
	// report rather than the empty-scrape notice.
	if model.HasLocation(jobs) {
		var removed int
		jobs, removed = filterTargetCities(jobs)
		if removed > 0 {
			log.Info("pipeline: filtered non-target jobs", zap.Int("removed", removed))
		}
	}

	// 4. Classify and score, then stable-sort descending.
	log.Info("pipeline: scoring", zap.Int("jobs", len(jobs)))
	weights := model.DefaultScoringWeights()
	if sub.ScoringWeights != nil {
		weights = *sub.ScoringWeights
	}

	now := p.now()
	for i := range jobs {
		jobs[i].CompanyTier = scorer.ClassifyCompany(jobs[i].Company)
		jobs[i].Seniority = scorer.DetectSeniority(jobs[i].Title)
		if jobs[i].Seniority == "" {
			jobs[i].Seniority = "mid"
		}
		jobs[i].Score = scorer.Score(jobs[i], prof, weights, now)
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Score > jobs[j].Score
	})

	// 5. Notify. Email delivery is best-effort: the outcome stays completed
	// even when the digest fails to send.
	log.Info("pipeline: sending digest", zap.String("email", sub.Email))
	if err := p.notifier.SendDigest(ctx, sub.Email, jobs); err != nil {
		log.Error("pipeline: digest email failed", zap.Error(err))
	}

	topScore := 0.0
	if len(jobs) > 0 {
		topScore = jobs[0].Score
	}
	log.Info("pipeline: done",
		zap.Int("jobs", len(jobs)),
		zap.Float64("top_score", topScore),
	)
	return model.Completed(sub.SubmissionID, len(jobs))
}

// record persists the terminal outcome when a store is configured.
func (p *Pipeline) record(ctx context.Context, outcome model.Outcome, log *zap.Logger) {
	if p.store == nil {
		return
	}
	if err := p.store.SetOutcome(ctx, outcome); err != nil {
		log.Warn("pipeline: failed to record outcome", zap.Error(err))
	}
}

func toModelJobs(rows []jobspy.Job) []model.Job {
	jobs := make([]model.Job, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, model.Job{
			Title:       r.Title,
			Company:     r.Company,
			Location:    r.Location,
			URL:         r.URL,
			Site:        r.Site,
			Description: r.Description,
			PostedAt:    r.PostedAt,
		})
	}
	return jobs
}
