package model

import "time"

// Job is one scraped job row. The scraping collaborator fills the raw fields;
// the pipeline annotates CompanyTier, Seniority, and Score before sorting.
type Job struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	URL         string     `json:"url"`
	Site        string     `json:"site"`
	Description string     `json:"description,omitempty"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`

	CompanyTier string  `json:"company_tier,omitempty"`
	Seniority   string  `json:"seniority,omitempty"`
	Score       float64 `json:"score"`
}

// HasLocation reports whether any row in the set carries location text.
// When none do, the geo filter is skipped entirely.
func HasLocation(jobs []Job) bool {
	for _, j := range jobs {
		if j.Location != "" {
			return true
		}
	}
	return false
}
