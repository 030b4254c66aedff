// Package model defines the core domain types shared across the worker:
// submissions, profiles, preferences, scraped jobs, and terminal outcomes.
package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Skill tiers recognized in a profile. Anything else is treated as peripheral.
const (
	TierCore       = "core"
	TierStrong     = "strong"
	TierPeripheral = "peripheral"
)

// Skill is one entry in an AI-parsed profile.
type Skill struct {
	Name string `json:"name"`
	Tier string `json:"tier,omitempty"`
}

// NormalizedTier returns the skill's tier, defaulting to peripheral when unset.
func (s Skill) NormalizedTier() string {
	t := strings.ToLower(strings.TrimSpace(s.Tier))
	if t == "" {
		return TierPeripheral
	}
	return t
}

// Profile is the AI-parsed skills/titles/keywords profile attached to a submission.
type Profile struct {
	Skills   []Skill  `json:"skills"`
	Titles   []string `json:"titles"`
	Keywords []string `json:"keywords"`
}

// Preferences carries the caller's search preferences. Empty lists mean
// "use the system defaults"; zero integers pick up the documented defaults.
type Preferences struct {
	Locations        []string `json:"locations"`
	Roles            []string `json:"roles"`
	HoursOld         int      `json:"hours_old"`
	ResultsPerSearch int      `json:"results_per_search"`
}

// Default recency window and per-search result cap.
const (
	DefaultHoursOld         = 72
	DefaultResultsPerSearch = 30
)

// ApplyDefaults fills zero-valued numeric preferences with their defaults.
func (p *Preferences) ApplyDefaults() {
	if p.HoursOld <= 0 {
		p.HoursOld = DefaultHoursOld
	}
	if p.ResultsPerSearch <= 0 {
		p.ResultsPerSearch = DefaultResultsPerSearch
	}
}

// ScoringWeights is an optional per-submission override of the six
// multiplicative scoring factors. All factors default to 1.0.
type ScoringWeights struct {
	CompanyTier float64 `json:"companyTier"`
	Location    float64 `json:"location"`
	TitleMatch  float64 `json:"titleMatch"`
	Skills      float64 `json:"skills"`
	Sponsorship float64 `json:"sponsorship"`
	Recency     float64 `json:"recency"`
}

// DefaultScoringWeights returns the neutral weighting.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		CompanyTier: 1.0,
		Location:    1.0,
		TitleMatch:  1.0,
		Skills:      1.0,
		Sponsorship: 1.0,
		Recency:     1.0,
	}
}

// Submission is one accepted scrape-and-notify request. Immutable once
// accepted; it is consumed exactly once by the pipeline and then discarded.
type Submission struct {
	SubmissionID   string          `json:"submissionId"`
	Email          string          `json:"email"`
	Profile        Profile         `json:"profile"`
	Preferences    Preferences     `json:"preferences"`
	ScoringWeights *ScoringWeights `json:"scoringWeights,omitempty"`
}

// Validate checks the fields required to accept a submission.
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.SubmissionID) == "" {
		return eris.New("model: submissionId is required")
	}
	if strings.TrimSpace(s.Email) == "" || !strings.Contains(s.Email, "@") {
		return eris.New("model: a valid email is required")
	}
	return nil
}

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	StatusQueued    SubmissionStatus = "queued"
	StatusCompleted SubmissionStatus = "completed"
	StatusFailed    SubmissionStatus = "failed"
)

// Outcome is the single terminal report produced per submission.
type Outcome struct {
	SubmissionID string           `json:"submissionId"`
	Status       SubmissionStatus `json:"status"`
	JobCount     int              `json:"jobCount"`
	Error        string           `json:"error,omitempty"`
}

// Completed builds a successful outcome carrying the scored job count.
func Completed(submissionID string, jobCount int) Outcome {
	return Outcome{SubmissionID: submissionID, Status: StatusCompleted, JobCount: jobCount}
}

// Failed builds a failure outcome carrying the error message.
func Failed(submissionID string, err error) Outcome {
	o := Outcome{SubmissionID: submissionID, Status: StatusFailed}
	if err != nil {
		o.Error = err.Error()
	}
	return o
}

// SubmissionRecord is the stored terminal-state record for a submission,
// keyed by the caller-assigned submission id.
type SubmissionRecord struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Status    SubmissionStatus `json:"status"`
	JobCount  int              `json:"job_count"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
