// Package scorer classifies and scores scraped jobs against an adapted
// profile. All functions are stateless and reentrant: every per-submission
// input, including the tier-weight map, arrives as an explicit argument.
package scorer

import (
	"strings"
	"time"

	"github.com/arokua/job-hunter/internal/model"
	"github.com/arokua/job-hunter/internal/profile"
)

// Company tier labels.
const (
	CompanyTier1 = "tier-1"
	CompanyTier2 = "tier-2"
)

// tier1Companies and tier2Companies are curated employer tables matched
// case-insensitively by substring against the scraped company name.
var tier1Companies = []string{
	"atlassian", "canva", "google", "amazon", "microsoft", "apple", "meta",
}

var tier2Companies = []string{
	"seek", "rea group", "xero", "wisetech", "afterpay", "airwallex",
	"telstra", "commonwealth bank", "nab", "westpac", "anz",
}

// ClassifyCompany derives a company tier label from the employer name.
// Unknown companies return an empty label.
func ClassifyCompany(name string) string {
	lower := strings.ToLower(name)
	if lower == "" {
		return ""
	}
	for _, c := range tier1Companies {
		if strings.Contains(lower, c) {
			return CompanyTier1
		}
	}
	for _, c := range tier2Companies {
		if strings.Contains(lower, c) {
			return CompanyTier2
		}
	}
	return ""
}

// seniorMarkers and juniorMarkers are matched against the job title.
var seniorMarkers = []string{"senior", "staff", "principal", "lead", "sr."}

var juniorMarkers = []string{"junior", "graduate", "intern", "entry level", "jr."}

// DetectSeniority derives a seniority label from the job title. An empty
// return means the detector could not tell; the pipeline defaults that to mid.
func DetectSeniority(title string) string {
	lower := strings.ToLower(title)
	for _, m := range seniorMarkers {
		if strings.Contains(lower, m) {
			return "senior"
		}
	}
	for _, m := range juniorMarkers {
		if strings.Contains(lower, m) {
			return "junior"
		}
	}
	return ""
}

// Base contributions per factor before the per-submission weight multiplier.
const (
	tier1Points       = 15.0
	tier2Points       = 8.0
	homeCityPoints    = 10.0
	remotePoints      = 6.0
	otherAUPoints     = 3.0
	titleMatchPoints  = 12.0
	keywordHitPoints  = 4.0
	maxSkillPoints    = 25.0
	sponsorshipPoints = 8.0
	noSponsorPenalty  = -10.0
	freshDayPoints    = 6.0
	freshWindowPoints = 3.0
)

// Score computes the numeric relevance score for one job: six multiplicative
// named factors, each a base contribution scaled by its weight. The skills
// factor consults the submission-scoped tier weights from the adapted profile.
func Score(job model.Job, prof profile.Adapted, weights model.ScoringWeights, now time.Time) float64 {
	score := 0.0

	score += weights.CompanyTier * companyTierPoints(job.CompanyTier)
	score += weights.Location * locationPoints(job.Location)
	score += weights.TitleMatch * titleMatchScore(job.Title, prof)
	score += weights.Skills * skillPoints(job, prof.TierWeights)
	score += weights.Sponsorship * sponsorshipScore(job.Description)
	score += weights.Recency * recencyPoints(job.PostedAt, now)

	return score
}

func companyTierPoints(tier string) float64 {
	switch tier {
	case CompanyTier1:
		return tier1Points
	case CompanyTier2:
		return tier2Points
	default:
		return 0
	}
}

func locationPoints(location string) float64 {
	lower := strings.ToLower(location)
	switch {
	case strings.Contains(lower, "adelaide"):
		return homeCityPoints
	case strings.Contains(lower, "remote"):
		return remotePoints
	case strings.Contains(lower, "sydney"),
		strings.Contains(lower, "melbourne"),
		strings.Contains(lower, "australia"):
		return otherAUPoints
	default:
		return 0
	}
}

// titleMatchScore awards full points when the job title contains one of the
// profile's target titles, and a smaller keyword credit otherwise.
func titleMatchScore(title string, prof profile.Adapted) float64 {
	lower := strings.ToLower(title)
	for _, t := range prof.Titles {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return titleMatchPoints
		}
	}
	for kw := range prof.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return keywordHitPoints
		}
	}
	return 0
}

// skillPoints sums the tier weight of every profile skill mentioned in the
// job title or description, capped at maxSkillPoints.
func skillPoints(job model.Job, tierWeights map[string]int) float64 {
	haystack := strings.ToLower(job.Title + " " + job.Description)
	total := 0.0
	for skill, weight := range tierWeights {
		if strings.Contains(haystack, skill) {
			total += float64(weight)
		}
	}
	if total > maxSkillPoints {
		total = maxSkillPoints
	}
	return total
}

func sponsorshipScore(description string) float64 {
	lower := strings.ToLower(description)
	switch {
	case strings.Contains(lower, "no sponsorship"),
		strings.Contains(lower, "citizens only"),
		strings.Contains(lower, "must have permanent residency"):
		return noSponsorPenalty
	case strings.Contains(lower, "visa sponsorship"),
		strings.Contains(lower, "sponsorship available"),
		strings.Contains(lower, "willing to sponsor"):
		return sponsorshipPoints
	default:
		return 0
	}
}

func recencyPoints(postedAt *time.Time, now time.Time) float64 {
	if postedAt == nil {
		return 0
	}
	age := now.Sub(*postedAt)
	switch {
	case age <= 24*time.Hour:
		return freshDayPoints
	case age <= 72*time.Hour:
		return freshWindowPoints
	default:
		return 0
	}
}
