package enums

import "fmt"

// ApplicationStage is the primary lifecycle state of a loan application.
type ApplicationStage string

const (
	ApplicationStageCreated      ApplicationStage = "created"
	ApplicationStageSubmitted    ApplicationStage = "submitted"
	ApplicationStageInCredit     ApplicationStage = "in_credit"
	ApplicationStageInfoRequired ApplicationStage = "info_required"
	ApplicationStageApproved     ApplicationStage = "approved"
	ApplicationStageOnboarding   ApplicationStage = "onboarding"
	ApplicationStageFunded       ApplicationStage = "funded"
	ApplicationStageDeclined     ApplicationStage = "declined"
	ApplicationStageWithdrawn    ApplicationStage = "withdrawn"
)

var validApplicationStages = []ApplicationStage{
	ApplicationStageCreated,
	ApplicationStageSubmitted,
	ApplicationStageInCredit,
	ApplicationStageInfoRequired,
	ApplicationStageApproved,
	ApplicationStageOnboarding,
	ApplicationStageFunded,
	ApplicationStageDeclined,
	ApplicationStageWithdrawn,
}

// String implements fmt.Stringer.
func (a ApplicationStage) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ApplicationStage.
func (a ApplicationStage) IsValid() bool {
	for _, candidate := range validApplicationStages {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the stage accepts no further transitions.
func (a ApplicationStage) IsTerminal() bool {
	switch a {
	case ApplicationStageFunded, ApplicationStageDeclined, ApplicationStageWithdrawn:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from a to target is allowed. Moves
// between non-terminal stages are free; a terminal stage only permits the
// same-stage no-op.
func (a ApplicationStage) CanTransitionTo(target ApplicationStage) bool {
	if !target.IsValid() {
		return false
	}
	if a == target {
		return true
	}
	return !a.IsTerminal()
}

// ParseApplicationStage converts raw input into an ApplicationStage.
func ParseApplicationStage(value string) (ApplicationStage, error) {
	for _, candidate := range validApplicationStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid application stage %q", value)
}
