package model

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestIsLocking(t *testing.T) {
	tests := []struct {
		status  string
		locking bool
		open    bool
	}{
		{ClaimStatusRequested, false, false},
		{ClaimStatusApproved, true, true},
		{ClaimStatusClaimerMarked, true, true},
		{ClaimStatusFinderMarked, true, true},
		{ClaimStatusPending, true, true},
		{ClaimStatusCompleted, true, false},
		{ClaimStatusRejected, false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := IsLocking(tt.status); got != tt.locking {
			t.Errorf("IsLocking(%q) = %v, want %v", tt.status, got, tt.locking)
		}
		if got := IsOpenLocking(tt.status); got != tt.open {
			t.Errorf("IsOpenLocking(%q) = %v, want %v", tt.status, got, tt.open)
		}
	}
}
