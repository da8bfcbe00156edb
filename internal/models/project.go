package models

// ProjectStatus is the lifecycle state of a project listing.
type ProjectStatus string

const (
	ProjectAvailable  ProjectStatus = "available"
	ProjectProposal   ProjectStatus = "proposal"
	ProjectInProgress ProjectStatus = "inProgress"
	ProjectCompleted  ProjectStatus = "completed"
)

// ApprovalStatus is the state of a milestone in the approval workflow.
// Transitions are forward-only: pending -> requested -> inReview -> approved.
type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "pending"
	ApprovalRequested ApprovalStatus = "requested"
	ApprovalInReview  ApprovalStatus = "inReview"
	ApprovalApproved  ApprovalStatus = "approved"
)

// Next returns the successor along the approval chain, or the status
// itself if it is terminal.
func (s ApprovalStatus) Next() ApprovalStatus {
	switch s {
	case ApprovalPending:
		return ApprovalRequested
	case ApprovalRequested:
		return ApprovalInReview
	case ApprovalInReview:
		return ApprovalApproved
	default:
		return s
	}
}

// CanTransitionTo reports whether moving from s to target respects the
// forward-only chain. Self-transitions are allowed (idempotent calls).
func (s ApprovalStatus) CanTransitionTo(target ApprovalStatus) bool {
	order := map[ApprovalStatus]int{
		ApprovalPending:   0,
		ApprovalRequested: 1,
		ApprovalInReview:  2,
		ApprovalApproved:  3,
	}
	from, ok1 := order[s]
	to, ok2 := order[target]
	return ok1 && ok2 && to >= from
}

// Milestone is a priced, individually-approvable sub-deliverable of a
// project. Price arrives currency-tagged from upstream ("$300",
// "PKR 1,000") and is normalized at the boundary.
type Milestone struct {
	ID            int64          `json:"id"`
	ProjectID     int64          `json:"project_id"`
	Position      int            `json:"position"`
	Title         string         `json:"title"`
	Duration      string         `json:"duration"`
	Price         string         `json:"price"`
	Status        ApprovalStatus `json:"status"`
	Communication float64        `json:"communication,omitempty"`
	Quality       float64        `json:"quality,omitempty"`
	Punctuality   float64        `json:"punctuality,omitempty"`
}

// Project owns its ordered milestone sequence exclusively.
type Project struct {
	ID             int64         `json:"id"`
	ClientID       int64         `json:"client_id"`
	FreelancerID   int64         `json:"freelancer_id,omitempty"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Budget         float64       `json:"budget"`
	Deadline       string        `json:"deadline"`
	Status         ProjectStatus `json:"status"`
	ProposalStatus string        `json:"proposal_status,omitempty"`
	Proposals      int           `json:"proposals"`
	Skills         []string      `json:"skills"`
	Milestones     []Milestone   `json:"milestones"`
}
