package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationStageTerminality(t *testing.T) {
	terminal := []ApplicationStage{
		ApplicationStageFunded,
		ApplicationStageDeclined,
		ApplicationStageWithdrawn,
	}
	for _, stage := range terminal {
		assert.True(t, stage.IsTerminal(), "%s should be terminal", stage)
	}

	nonTerminal := []ApplicationStage{
		ApplicationStageCreated,
		ApplicationStageSubmitted,
		ApplicationStageInCredit,
		ApplicationStageInfoRequired,
		ApplicationStageApproved,
		ApplicationStageOnboarding,
	}
	for _, stage := range nonTerminal {
		assert.False(t, stage.IsTerminal(), "%s should not be terminal", stage)
	}
}

func TestApplicationStageTransitions(t *testing.T) {
	// Free movement between non-terminal stages, both directions.
	assert.True(t, ApplicationStageSubmitted.CanTransitionTo(ApplicationStageApproved))
	assert.True(t, ApplicationStageApproved.CanTransitionTo(ApplicationStageCreated))

	// Terminal stages accept nothing except the same-stage no-op.
	assert.False(t, ApplicationStageFunded.CanTransitionTo(ApplicationStageCreated))
	assert.False(t, ApplicationStageDeclined.CanTransitionTo(ApplicationStageSubmitted))
	assert.True(t, ApplicationStageFunded.CanTransitionTo(ApplicationStageFunded))

	// Unknown targets are rejected regardless of source.
	assert.False(t, ApplicationStageCreated.CanTransitionTo(ApplicationStage("archived")))
}

func TestParseApplicationStage(t *testing.T) {
	stage, err := ParseApplicationStage("in_credit")
	require.NoError(t, err)
	assert.Equal(t, ApplicationStageInCredit, stage)

	_, err = ParseApplicationStage("IN_CREDIT")
	assert.Error(t, err)
}

func TestPresentationForCoversEveryStage(t *testing.T) {
	for _, stage := range validApplicationStages {
		p := PresentationFor(stage)
		assert.NotEmpty(t, p.Label, "stage %s missing label", stage)
		assert.NotEmpty(t, p.Badge, "stage %s missing badge", stage)
	}

	fallback := PresentationFor(ApplicationStage("mystery"))
	assert.Equal(t, "mystery", fallback.Label)
	assert.Equal(t, "gray", fallback.Badge)
}
