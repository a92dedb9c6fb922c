package blueprint

// Slot describes one output document in a blueprint run. Slots are
// generated strictly in order; Share is the slot's contribution to the
// session's progress percentage and all shares sum to 100.
type Slot struct {
	// Filename is the logical document name and registry files key
	Filename string

	// Title is the human-readable document title
	Title string

	// Phase is the label shown while this slot is generating
	Phase string

	// Share is the slot's progress contribution (percent)
	Share int

	// Required marks slots whose output feeds later prompts. A failed
	// required slot fails the whole run; optional failures substitute
	// fallback text and continue.
	Required bool

	// Local marks slots composed locally without an LLM call
	Local bool
}

// PhaseAnalysis through PhaseFinalize are the generation phase labels
const (
	PhaseAnalysis       = "Analysis & Research"
	PhasePlanning       = "Planning & Strategy"
	PhaseSolutioning    = "Solution Design"
	PhaseImplementation = "Implementation & Launch"
	PhaseFinalize       = "Finalize"
)

// slots is the fixed ordered document list for every blueprint run
var slots = []Slot{
	{Filename: "product_brief.md", Title: "Product Brief", Phase: PhaseAnalysis, Share: 12, Required: true},
	{Filename: "financial_model.md", Title: "Financial Model", Phase: PhaseAnalysis, Share: 13},
	{Filename: "prd.md", Title: "Product Requirements Document", Phase: PhasePlanning, Share: 10, Required: true},
	{Filename: "tech_spec.md", Title: "Technical Plan", Phase: PhasePlanning, Share: 5, Required: true},
	{Filename: "feature_prioritization.md", Title: "Feature Prioritization", Phase: PhasePlanning, Share: 5},
	{Filename: "competitive_analysis.md", Title: "Competitive Analysis", Phase: PhasePlanning, Share: 5},
	{Filename: "architecture.md", Title: "System Architecture", Phase: PhaseSolutioning, Share: 10, Required: true},
	{Filename: "user_flow.md", Title: "User Flows", Phase: PhaseSolutioning, Share: 8},
	{Filename: "design_system.md", Title: "Design System", Phase: PhaseSolutioning, Share: 7},
	{Filename: "roadmap.md", Title: "Roadmap", Phase: PhaseImplementation, Share: 8},
	{Filename: "testing_plan.md", Title: "Testing Plan", Phase: PhaseImplementation, Share: 6},
	{Filename: "deployment_guide.md", Title: "Deployment Guide", Phase: PhaseImplementation, Share: 6},
	{Filename: "overview.md", Title: "Project Overview", Phase: PhaseFinalize, Share: 5, Local: true},
}

// Slots returns the fixed ordered slot table
func Slots() []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// SlotFilenames returns the filenames a session's files map is created with
func SlotFilenames() []string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.Filename
	}
	return names
}
