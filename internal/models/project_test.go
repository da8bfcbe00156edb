package models

import "testing"

func TestApprovalStatusNext(t *testing.T) {
	cases := []struct {
		from, want ApprovalStatus
	}{
		{ApprovalPending, ApprovalRequested},
		{ApprovalRequested, ApprovalInReview},
		{ApprovalInReview, ApprovalApproved},
		{ApprovalApproved, ApprovalApproved}, // terminal
	}
	for _, tc := range cases {
		if got := tc.from.Next(); got != tc.want {
			t.Errorf("%s.Next() = %s, want %s", tc.from, got, tc.want)
		}
	}
}

func TestApprovalStatusForwardOnly(t *testing.T) {
	if !ApprovalPending.CanTransitionTo(ApprovalApproved) {
		t.Error("forward jumps are allowed")
	}
	if ApprovalApproved.CanTransitionTo(ApprovalPending) {
		t.Error("backward transition must be rejected")
	}
	if !ApprovalRequested.CanTransitionTo(ApprovalRequested) {
		t.Error("self-transition must be allowed (idempotent calls)")
	}
	if ApprovalPending.CanTransitionTo("bogus") {
		t.Error("unknown status must be rejected")
	}
}

func TestAutoReplenishSettingsValidate(t *testing.T) {
	cases := []struct {
		name string
		s    AutoReplenishSettings
		ok   bool
	}{
		{"disabled zero values", AutoReplenishSettings{}, true},
		{"enabled with top-up", AutoReplenishSettings{Enabled: true, Threshold: 50, TopUpAmount: 100}, true},
		{"enabled without top-up", AutoReplenishSettings{Enabled: true, Threshold: 50}, false},
		{"negative threshold", AutoReplenishSettings{Threshold: -1}, false},
	}
	for _, tc := range cases {
		err := tc.s.Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}
