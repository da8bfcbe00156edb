// Package milestone derives project-level progress, earnings and
// review aggregates from milestone records, and implements the
// forward-only approval workflow. Functions are pure; collection
// mutations return a copy.
package milestone

import (
	"errors"
	"fmt"
	"math"

	"github.com/workhive/freelance-service/internal/models"
	"github.com/workhive/freelance-service/internal/utils"
)

// ErrIndexOutOfRange signals a caller bug: an approval operation
// addressed a milestone index that does not exist.
var ErrIndexOutOfRange = errors.New("milestone index out of range")

// EarnMode selects which milestones count toward the earned sum.
type EarnMode int

const (
	// EarnApprovedOnly sums only approved milestones (in-progress view).
	EarnApprovedOnly EarnMode = iota
	// EarnAll sums every milestone (completed-project view).
	EarnAll
)

// ComputeProgress returns the completion percentage for a project.
// Completed projects report 100 by convention regardless of their
// milestone states; in-progress projects report the rounded approved
// share; everything else reports 0.
func ComputeProgress(ms []models.Milestone, status models.ProjectStatus) int {
	switch {
	case status == models.ProjectCompleted:
		return 100
	case status == models.ProjectInProgress && len(ms) > 0:
		approved := 0
		for _, m := range ms {
			if m.Status == models.ApprovalApproved {
				approved++
			}
		}
		return int(math.Round(100 * float64(approved) / float64(len(ms))))
	default:
		return 0
	}
}

// Receipt names the milestone a workflow operation transitioned, for
// the caller's notification layer. Transitioned is false when the
// operation was an idempotent no-op.
type Receipt struct {
	Index        int
	Title        string
	From, To     models.ApprovalStatus
	Transitioned bool
}

// RequestApproval transitions the milestone at index from pending to
// requested and returns the updated collection as a copy. Calling it
// on a milestone already past pending is a no-op, not an error; an
// out-of-range index is a caller bug and fails loudly.
func RequestApproval(ms []models.Milestone, index int) ([]models.Milestone, Receipt, error) {
	return transition(ms, index, models.ApprovalPending, models.ApprovalRequested)
}

// StartReview moves a requested milestone into review.
func StartReview(ms []models.Milestone, index int) ([]models.Milestone, Receipt, error) {
	return transition(ms, index, models.ApprovalRequested, models.ApprovalInReview)
}

// Approve moves an in-review milestone to approved. Approval is what
// gates escrow release; the release itself is the caller's side effect.
func Approve(ms []models.Milestone, index int) ([]models.Milestone, Receipt, error) {
	return transition(ms, index, models.ApprovalInReview, models.ApprovalApproved)
}

func transition(ms []models.Milestone, index int, from, to models.ApprovalStatus) ([]models.Milestone, Receipt, error) {
	if index < 0 || index >= len(ms) {
		return nil, Receipt{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(ms))
	}
	out := make([]models.Milestone, len(ms))
	copy(out, ms)
	m := &out[index]
	r := Receipt{Index: index, Title: m.Title, From: m.Status, To: m.Status}
	if m.Status != from {
		// already past (or not yet at) the source state: idempotent no-op
		return out, r, nil
	}
	m.Status = to
	r.To = to
	r.Transitioned = true
	return out, r, nil
}

// ComputeEarned sums milestone prices. Prices may be currency-tagged
// strings; non-numeric characters are stripped and unparseable prices
// count as 0.
func ComputeEarned(ms []models.Milestone, mode EarnMode) float64 {
	var sum float64
	for _, m := range ms {
		if mode == EarnApprovedOnly && m.Status != models.ApprovalApproved {
			continue
		}
		sum += utils.ParseAmount(m.Price)
	}
	return sum
}

// ComputeAggregateRating averages a review's milestone ratings
// together with its three named sub-ratings, rounded to one decimal.
// An empty concatenation yields 0.
func ComputeAggregateRating(r models.Review) float64 {
	ratings := append([]float64{}, r.MilestoneRatings...)
	ratings = append(ratings, r.Communication, r.Quality, r.Punctuality)
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, v := range ratings {
		sum += v
	}
	return utils.Round1(sum / float64(len(ratings)))
}

// OverallRating is a freelancer's displayed score: the mean of their
// reviews' aggregate ratings, same rounding rule.
func OverallRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += ComputeAggregateRating(r)
	}
	return utils.Round1(sum / float64(len(reviews)))
}
