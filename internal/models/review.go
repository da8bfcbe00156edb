package models

// Review is a client's assessment of a freelancer's work on a project.
// The aggregate rating is derived, never stored.
type Review struct {
	ID               int64     `json:"id"`
	ProjectID        int64     `json:"project_id"`
	FreelancerID     int64     `json:"freelancer_id"`
	Communication    float64   `json:"communication"`
	Quality          float64   `json:"quality"`
	Punctuality      float64   `json:"punctuality"`
	MilestoneRatings []float64 `json:"milestone_ratings"`
	Comment          string    `json:"comment"`
	CreatedAt        string    `json:"created_at"`
}
