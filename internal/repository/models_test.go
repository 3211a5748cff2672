package repository

import (
	"testing"
	"time"
)

func TestRoleCan(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleAdmin, CapProcessSales, true},
		{RoleAdmin, CapViewReports, true},
		{RoleAdmin, CapUnlockAccounts, true},
		{RoleAdmin, CapManageUsers, true},
		{RoleManager, CapProcessSales, true},
		{RoleManager, CapViewReports, true},
		{RoleManager, CapUnlockAccounts, true},
		{RoleManager, CapManageUsers, false},
		{RoleCashier, CapProcessSales, true},
		{RoleCashier, CapViewReports, false},
		{RoleCashier, CapUnlockAccounts, false},
		{RoleCashier, CapManageUsers, false},
		{Role("intern"), CapProcessSales, false},
	}

	for _, tt := range tests {
		if got := tt.role.Can(tt.cap); got != tt.want {
			t.Errorf("%s.Can(%d) = %v, want %v", tt.role, tt.cap, got, tt.want)
		}
	}
}

func TestUserLocked(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	tests := []struct {
		name string
		user User
		want bool
	}{
		{name: "no lock", user: User{}, want: false},
		{name: "active lock", user: User{LockedUntil: &future}, want: true},
		{name: "expired lock", user: User{LockedUntil: &past}, want: false},
		{name: "lock boundary", user: User{LockedUntil: &now}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.Locked(now); got != tt.want {
				t.Errorf("Locked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaymentMethodValid(t *testing.T) {
	if !PayCash.Valid() || !PayCard.Valid() {
		t.Error("known payment methods reported invalid")
	}
	if PaymentMethod("check").Valid() {
		t.Error("unknown payment method reported valid")
	}
}
