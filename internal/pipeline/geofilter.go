package pipeline

import (
	"strings"

	"github.com/arokua/job-hunter/internal/model"
)

// targetCityTokens are matched case-insensitively as substrings of the job
// location. The bare "australia" token is intentionally loose and can match
// unrelated locations containing it; that is the existing filter behavior.
var targetCityTokens = []string{"adelaide", "sydney", "melbourne", "remote", "australia"}

// filterTargetCities retains only rows whose location mentions a target city
// token. Rows without location text are dropped. When no row in the set
// carries location data at all, filtering does not apply and the caller
// skips this step.
func filterTargetCities(jobs []model.Job) (kept []model.Job, removed int) {
	kept = make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if matchesTargetCity(j.Location) {
			kept = append(kept, j)
		} else {
			removed++
		}
	}
	return kept, removed
}

func matchesTargetCity(location string) bool {
	lower := strings.ToLower(location)
	for _, token := range targetCityTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
