package profile

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arokua/job-hunter/internal/model"
)

func TestAdapt_TierWeights(t *testing.T) {
	t.Parallel()

	p := model.Profile{
		Skills: []model.Skill{
			{Name: "Go", Tier: "core"},
			{Name: "Kubernetes", Tier: "strong"},
			{Name: "Terraform", Tier: "peripheral"},
			{Name: "Bash"},                       // unset tier
			{Name: "COBOL", Tier: "ultra-rare"},  // unrecognized tier
		},
	}

	a := Adapt(p)

	assert.Equal(t, 5, a.TierWeights["go"])
	assert.Equal(t, 3, a.TierWeights["kubernetes"])
	assert.Equal(t, 1, a.TierWeights["terraform"])
	assert.Equal(t, 1, a.TierWeights["bash"])
	assert.Equal(t, 1, a.TierWeights["cobol"])

	// Every skill name appears lowercased with a weight in {5,3,1}.
	require.Len(t, a.TierWeights, 5)
	for _, w := range a.TierWeights {
		assert.Contains(t, []int{5, 3, 1}, w)
	}
}

func TestAdapt_SkillAndKeywordSets(t *testing.T) {
	t.Parallel()

	p := model.Profile{
		Skills:   []model.Skill{{Name: "Go"}, {Name: "Go"}, {Name: " "}},
		Titles:   []string{"Backend Engineer", "Platform Engineer"},
		Keywords: []string{"distributed", "", "distributed"},
	}

	a := Adapt(p)

	assert.Len(t, a.Skills, 1)
	assert.True(t, a.Skills["Go"])
	assert.Equal(t, p.Titles, a.Titles)
	assert.Len(t, a.Keywords, 1)
	assert.True(t, a.Keywords["distributed"])
}

// Concurrent submissions naming the same skill with different tiers must not
// observe each other's weights: the tier-weight map is submission-scoped.
func TestAdapt_ConcurrentSubmissionsAreIsolated(t *testing.T) {
	t.Parallel()

	profA := model.Profile{Skills: []model.Skill{{Name: "python", Tier: "core"}}}
	profB := model.Profile{Skills: []model.Skill{{Name: "python", Tier: "peripheral"}}}

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)

	errs := make(chan string, rounds*2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if w := Adapt(profA).TierWeights["python"]; w != 5 {
				errs <- "submission A saw foreign weight"
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if w := Adapt(profB).TierWeights["python"]; w != 1 {
				errs <- "submission B saw foreign weight"
			}
		}
	}()

	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatal(msg)
	}
}
