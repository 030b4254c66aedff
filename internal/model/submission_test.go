package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkill_NormalizedTier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TierCore, Skill{Name: "go", Tier: "core"}.NormalizedTier())
	assert.Equal(t, TierCore, Skill{Name: "go", Tier: " Core "}.NormalizedTier())
	assert.Equal(t, TierPeripheral, Skill{Name: "go"}.NormalizedTier())
	assert.Equal(t, "legendary", Skill{Name: "go", Tier: "legendary"}.NormalizedTier())
}

func TestPreferences_ApplyDefaults(t *testing.T) {
	t.Parallel()

	var p Preferences
	p.ApplyDefaults()
	assert.Equal(t, DefaultHoursOld, p.HoursOld)
	assert.Equal(t, DefaultResultsPerSearch, p.ResultsPerSearch)

	p = Preferences{HoursOld: 24, ResultsPerSearch: 5}
	p.ApplyDefaults()
	assert.Equal(t, 24, p.HoursOld)
	assert.Equal(t, 5, p.ResultsPerSearch)
}

func TestSubmission_Validate(t *testing.T) {
	t.Parallel()

	sub := Submission{SubmissionID: "sub-1", Email: "dev@example.com"}
	require.NoError(t, sub.Validate())

	assert.Error(t, (&Submission{Email: "dev@example.com"}).Validate())
	assert.Error(t, (&Submission{SubmissionID: "sub-1"}).Validate())
	assert.Error(t, (&Submission{SubmissionID: "sub-1", Email: "not-an-email"}).Validate())
}

func TestSubmission_DecodesWireFormat(t *testing.T) {
	t.Parallel()

	raw := `{
		"submissionId": "sub-42",
		"email": "dev@example.com",
		"profile": {
			"skills": [{"name": "Python", "tier": "core"}, {"name": "Docker"}],
			"titles": ["Software Engineer"],
			"keywords": ["backend"]
		},
		"preferences": {"locations": ["sydney"], "roles": [], "hours_old": 48, "results_per_search": 10},
		"scoringWeights": {"companyTier": 2.0, "location": 1.0, "titleMatch": 1.0, "skills": 1.0, "sponsorship": 1.0, "recency": 1.0}
	}`

	var sub Submission
	require.NoError(t, json.Unmarshal([]byte(raw), &sub))
	assert.Equal(t, "sub-42", sub.SubmissionID)
	assert.Len(t, sub.Profile.Skills, 2)
	assert.Equal(t, TierPeripheral, sub.Profile.Skills[1].NormalizedTier())
	assert.Equal(t, 48, sub.Preferences.HoursOld)
	require.NotNil(t, sub.ScoringWeights)
	assert.Equal(t, 2.0, sub.ScoringWeights.CompanyTier)
}

func TestOutcome_Constructors(t *testing.T) {
	t.Parallel()

	done := Completed("sub-1", 7)
	assert.Equal(t, StatusCompleted, done.Status)
	assert.Equal(t, 7, done.JobCount)
	assert.Empty(t, done.Error)

	failed := Failed("sub-2", assert.AnError)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, 0, failed.JobCount)
	assert.Equal(t, assert.AnError.Error(), failed.Error)
}

func TestOutcome_CallbackPayloadShape(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Completed("sub-1", 3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"submissionId":"sub-1","status":"completed","jobCount":3}`, string(out))

	out, err = json.Marshal(Failed("sub-2", assert.AnError))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"status":"failed"`)
	assert.Contains(t, string(out), `"error"`)
}

func TestHasLocation(t *testing.T) {
	t.Parallel()

	assert.False(t, HasLocation(nil))
	assert.False(t, HasLocation([]Job{{Title: "a"}, {Title: "b"}}))
	assert.True(t, HasLocation([]Job{{Title: "a"}, {Title: "b", Location: "Sydney"}}))
}
