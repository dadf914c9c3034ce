package models

import "testing"

func TestResolveRoles(t *testing.T) {
	cases := []struct {
		userType string
		want     RoleSet
	}{
		{UserTypeClient, RoleSet{Client: true}},
		{UserTypeProvider, RoleSet{Provider: true}},
		{UserTypeBoth, RoleSet{Client: true, Provider: true}},
		{UserTypeAdmin, RoleSet{Admin: true, Client: true, Provider: true}},
		{"unknown", RoleSet{}},
	}
	for _, tc := range cases {
		got := ResolveRoles(&User{UserType: tc.userType})
		if got != tc.want {
			t.Fatalf("ResolveRoles(%q) = %+v, want %+v", tc.userType, got, tc.want)
		}
	}

	if got := ResolveRoles(nil); got != (RoleSet{}) {
		t.Fatalf("ResolveRoles(nil) = %+v, want empty", got)
	}
}

func TestContractStatusHelpers(t *testing.T) {
	for _, s := range ContractStatuses {
		if !IsValidContractStatus(s) {
			t.Fatalf("%q should be a valid status", s)
		}
	}
	if IsValidContractStatus("archived") {
		t.Fatalf("accepted an unknown status")
	}

	terminal := map[string]bool{
		ContractStatusCompleted:              true,
		ContractStatusCancelled:              true,
		ContractStatusPendingAcceptance:      false,
		ContractStatusPendingClientAgreement: false,
		ContractStatusAccepted:               false,
		ContractStatusInProgress:             false,
		ContractStatusDisputed:               false,
	}
	for s, want := range terminal {
		if IsTerminalContractStatus(s) != want {
			t.Fatalf("IsTerminalContractStatus(%q) != %v", s, want)
		}
	}
}

func TestRatingAnonymized(t *testing.T) {
	r := Rating{RaterID: "rater-1", IsAnonymous: true}
	if got := r.Anonymized(); got.RaterID != "" {
		t.Fatalf("anonymous rating kept the rater id")
	}
	r.IsAnonymous = false
	if got := r.Anonymized(); got.RaterID != "rater-1" {
		t.Fatalf("named rating lost the rater id")
	}
}
