// Package profile adapts an AI-parsed profile into the normalized structure
// the scorer consumes.
package profile

import (
	"strings"

	"github.com/arokua/job-hunter/internal/model"
)

// Integer weights assigned to each skill tier for scoring.
var tierWeights = map[string]int{
	model.TierCore:       5,
	model.TierStrong:     3,
	model.TierPeripheral: 1,
}

// Adapted is the scorer-facing view of a profile. TierWeights is scoped to
// the submission that produced it: it is built fresh on every Adapt call and
// passed explicitly into scoring, so concurrent submissions naming the same
// skill with different tiers never observe each other's weights.
type Adapted struct {
	Skills      map[string]bool
	Titles      []string
	Keywords    map[string]bool
	TierWeights map[string]int
}

// Adapt converts a profile into the structure the scorer consumes.
// Skill names are deduplicated; tier weights map core/strong/peripheral to
// 5/3/1, and any unrecognized tier to 1.
func Adapt(p model.Profile) Adapted {
	a := Adapted{
		Skills:      make(map[string]bool, len(p.Skills)),
		Titles:      p.Titles,
		Keywords:    make(map[string]bool, len(p.Keywords)),
		TierWeights: make(map[string]int, len(p.Skills)),
	}

	for _, skill := range p.Skills {
		name := strings.TrimSpace(skill.Name)
		if name == "" {
			continue
		}
		a.Skills[name] = true

		weight, ok := tierWeights[skill.NormalizedTier()]
		if !ok {
			weight = 1
		}
		a.TierWeights[strings.ToLower(name)] = weight
	}

	for _, kw := range p.Keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			a.Keywords[kw] = true
		}
	}

	return a
}
