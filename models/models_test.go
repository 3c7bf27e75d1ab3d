package models

import (
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func TestUserIsStaff(t *testing.T) {
	tests := []struct {
		role string
		exp  bool
	}{
		{RoleAdmin, true},
		{RoleTrainer, true},
		{RoleReceptionist, true},
		{RoleMember, false},
		{"", false},
	}

	for _, tc := range tests {
		u := User{Role: tc.role}
		if got := u.IsStaff(); got != tc.exp {
			t.Fatalf("IsStaff() for role %q: expected %v, got %v", tc.role, tc.exp, got)
		}
	}
}

func TestMemberProfileBeforeSave(t *testing.T) {
	existing := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		paymentStatus string
		joinDate      *time.Time
		wantStamped   bool
		wantUnchanged bool
	}{
		{"unpaid stays unstamped", MemberUnpaid, nil, false, false},
		{"paid stamps join date", MemberPaid, nil, true, false},
		{"paid keeps existing join date", MemberPaid, &existing, false, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			m := MemberProfile{PaymentStatus: tc.paymentStatus, JoinDate: tc.joinDate}
			if err := m.BeforeSave(nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch {
			case tc.wantStamped:
				if m.JoinDate == nil {
					t.Fatal("expected join_date to be stamped")
				}
			case tc.wantUnchanged:
				if m.JoinDate == nil || !m.JoinDate.Equal(existing) {
					t.Fatalf("expected join_date to stay %v, got %v", existing, m.JoinDate)
				}
			default:
				if m.JoinDate != nil {
					t.Fatalf("expected join_date to stay nil, got %v", m.JoinDate)
				}
			}
		})
	}
}

func TestTrainerProfileBeforeSaveForcesRole(t *testing.T) {
	// Loaded association gets corrected in memory even before the row
	// exists, so no stored user is needed for this path.
	p := TrainerProfile{User: User{BaseModel: BaseModel{ID: 5}, Role: RoleMember}}
	if err := p.BeforeSave(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.User.Role != RoleTrainer {
		t.Fatalf("expected role %q, got %q", RoleTrainer, p.User.Role)
	}

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("failed to open dry-run session: %v", err)
	}
	stored := TrainerProfile{UserID: 7}
	if err := stored.BeforeSave(db); err != nil {
		t.Fatalf("unexpected error syncing owner role: %v", err)
	}
}

func TestClassIsFull(t *testing.T) {
	tests := []struct {
		name    string
		current int
		max     int
		exp     bool
	}{
		{"empty", 0, 10, false},
		{"one below capacity", 9, 10, false},
		{"at capacity", 10, 10, true},
		{"over capacity", 11, 10, true},
		{"zero capacity", 0, 0, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			c := Class{CurrentMembers: tc.current, MaxMembers: tc.max}
			if got := c.IsFull(); got != tc.exp {
				t.Fatalf("expected %v, got %v", tc.exp, got)
			}
		})
	}
}
