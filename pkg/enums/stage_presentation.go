package enums

// StagePresentation carries the display label and badge colour for a stage.
// Every role view (client, partner, admin) derives its badge from this single
// mapping; per-view label tables are not allowed.
type StagePresentation struct {
	Label string `json:"label"`
	Badge string `json:"badge"`
}

var stagePresentations = map[ApplicationStage]StagePresentation{
	ApplicationStageCreated:      {Label: "Draft", Badge: "gray"},
	ApplicationStageSubmitted:    {Label: "Submitted", Badge: "blue"},
	ApplicationStageInCredit:     {Label: "In Credit Review", Badge: "indigo"},
	ApplicationStageInfoRequired: {Label: "Information Required", Badge: "amber"},
	ApplicationStageApproved:     {Label: "Approved", Badge: "green"},
	ApplicationStageOnboarding:   {Label: "Onboarding", Badge: "teal"},
	ApplicationStageFunded:       {Label: "Funded", Badge: "emerald"},
	ApplicationStageDeclined:     {Label: "Declined", Badge: "red"},
	ApplicationStageWithdrawn:    {Label: "Withdrawn", Badge: "slate"},
}

// PresentationFor returns the shared display mapping for a stage. Unknown
// stages fall back to the raw value with a neutral badge so a bad row never
// breaks a listing.
func PresentationFor(stage ApplicationStage) StagePresentation {
	if p, ok := stagePresentations[stage]; ok {
		return p
	}
	return StagePresentation{Label: string(stage), Badge: "gray"}
}
