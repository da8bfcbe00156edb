package milestone

import (
	"errors"
	"reflect"
	"testing"

	"github.com/workhive/freelance-service/internal/models"
)

func ms(status models.ApprovalStatus, price string) models.Milestone {
	return models.Milestone{Status: status, Price: price}
}

func TestComputeProgress(t *testing.T) {
	three := []models.Milestone{
		ms(models.ApprovalApproved, "$500"),
		ms(models.ApprovalPending, "$200"),
		ms(models.ApprovalRequested, "$300"),
	}
	cases := []struct {
		name   string
		ms     []models.Milestone
		status models.ProjectStatus
		want   int
	}{
		{"completed is always 100", nil, models.ProjectCompleted, 100},
		{"in progress one of three", three, models.ProjectInProgress, 33},
		{"in progress no milestones", nil, models.ProjectInProgress, 0},
		{"available", three, models.ProjectAvailable, 0},
		{"two of three rounds up", []models.Milestone{
			ms(models.ApprovalApproved, ""),
			ms(models.ApprovalApproved, ""),
			ms(models.ApprovalPending, ""),
		}, models.ProjectInProgress, 67},
	}
	for _, tc := range cases {
		if got := ComputeProgress(tc.ms, tc.status); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestComputeProgressMonotonic(t *testing.T) {
	base := []models.Milestone{
		ms(models.ApprovalPending, ""),
		ms(models.ApprovalPending, ""),
		ms(models.ApprovalPending, ""),
		ms(models.ApprovalPending, ""),
	}
	prev := ComputeProgress(base, models.ProjectInProgress)
	for i := range base {
		base[i].Status = models.ApprovalApproved
		cur := ComputeProgress(base, models.ProjectInProgress)
		if cur < prev {
			t.Fatalf("progress decreased after approving milestone %d: %d -> %d", i, prev, cur)
		}
		prev = cur
	}
	if prev != 100 {
		t.Fatalf("all approved should be 100, got %d", prev)
	}
}

func TestRequestApproval(t *testing.T) {
	in := []models.Milestone{
		{Title: "Wireframes", Status: models.ApprovalApproved},
		{Title: "Backend API", Status: models.ApprovalPending},
	}

	out, receipt, err := RequestApproval(in, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !receipt.Transitioned || receipt.Title != "Backend API" || receipt.To != models.ApprovalRequested {
		t.Fatalf("receipt = %+v", receipt)
	}
	if out[1].Status != models.ApprovalRequested {
		t.Errorf("milestone not transitioned: %v", out[1].Status)
	}
	if out[0].Status != models.ApprovalApproved {
		t.Errorf("sibling milestone changed: %v", out[0].Status)
	}
	// input collection untouched
	if in[1].Status != models.ApprovalPending {
		t.Errorf("input mutated in place")
	}
}

func TestRequestApprovalIdempotent(t *testing.T) {
	in := []models.Milestone{{Title: "Design", Status: models.ApprovalRequested}}

	first, r1, err := RequestApproval(in, 0)
	if err != nil {
		t.Fatal(err)
	}
	second, r2, err := RequestApproval(first, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r1.Transitioned || r2.Transitioned {
		t.Errorf("already-requested milestone must not transition again")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls must yield the same collection: %v vs %v", first, second)
	}
}

func TestRequestApprovalOutOfRange(t *testing.T) {
	_, _, err := RequestApproval([]models.Milestone{{Status: models.ApprovalPending}}, 3)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("want ErrIndexOutOfRange, got %v", err)
	}
	_, _, err = RequestApproval(nil, 0)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("empty collection: want ErrIndexOutOfRange, got %v", err)
	}
}

func TestApprovalChain(t *testing.T) {
	col := []models.Milestone{{Title: "Delivery", Status: models.ApprovalPending}}

	col, _, _ = RequestApproval(col, 0)
	col, _, _ = StartReview(col, 0)
	col, r, err := Approve(col, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Transitioned || col[0].Status != models.ApprovalApproved {
		t.Fatalf("chain did not reach approved: %+v", col[0])
	}

	// approved is terminal; further calls are no-ops
	col, r, err = Approve(col, 0)
	if err != nil || r.Transitioned || col[0].Status != models.ApprovalApproved {
		t.Fatalf("approved must be terminal: %+v err=%v", r, err)
	}
}

func TestComputeEarned(t *testing.T) {
	milestones := []models.Milestone{
		ms(models.ApprovalApproved, "$300"),
		ms(models.ApprovalPending, "PKR 1,000"),
	}
	if got := ComputeEarned(milestones, EarnApprovedOnly); got != 300 {
		t.Errorf("approvedOnly = %v, want 300", got)
	}
	if got := ComputeEarned(milestones, EarnAll); got != 1300 {
		t.Errorf("all = %v, want 1300", got)
	}
	if got := ComputeEarned(nil, EarnAll); got != 0 {
		t.Errorf("empty = %v, want 0", got)
	}
}

func TestEndToEndScenario(t *testing.T) {
	milestones := []models.Milestone{
		ms(models.ApprovalApproved, "$500"),
		ms(models.ApprovalPending, "$200"),
		ms(models.ApprovalRequested, "$300"),
	}
	if got := ComputeProgress(milestones, models.ProjectInProgress); got != 33 {
		t.Errorf("progress = %d, want 33", got)
	}
	if got := ComputeEarned(milestones, EarnApprovedOnly); got != 500 {
		t.Errorf("earned = %v, want 500", got)
	}
}

func TestComputeAggregateRating(t *testing.T) {
	r := models.Review{
		MilestoneRatings: []float64{5},
		Communication:    4,
		Quality:          4,
		Punctuality:      4,
	}
	// mean of [5 4 4 4] = 4.25, half-up to one decimal
	if got := ComputeAggregateRating(r); got != 4.3 {
		t.Errorf("aggregate = %v, want 4.3", got)
	}
}

func TestAggregateRatingBounds(t *testing.T) {
	cases := []models.Review{
		{},
		{Communication: 5, Quality: 5, Punctuality: 5, MilestoneRatings: []float64{5, 5, 5, 5}},
		{Communication: 0.5, Quality: 4.9, Punctuality: 2.2, MilestoneRatings: []float64{1, 3}},
	}
	for i, r := range cases {
		got := ComputeAggregateRating(r)
		if got < 0 || got > 5 {
			t.Errorf("case %d: rating %v outside [0,5]", i, got)
		}
	}
}

func TestOverallRating(t *testing.T) {
	reviews := []models.Review{
		{Communication: 5, Quality: 5, Punctuality: 5},
		{Communication: 4, Quality: 4, Punctuality: 4},
	}
	if got := OverallRating(reviews); got != 4.5 {
		t.Errorf("overall = %v, want 4.5", got)
	}
	if got := OverallRating(nil); got != 0 {
		t.Errorf("no reviews = %v, want 0", got)
	}
}
