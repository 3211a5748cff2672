package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/riaziiii/pos-system/internal/repository"
)

// StaffDirectory is the administrative slice of the user directory.
type StaffDirectory interface {
	ListUsers(ctx context.Context) ([]*repository.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	ClearLock(ctx context.Context, id string) error
}

// StaffService covers the user-management screen: listing accounts and the
// explicit unlock/deactivate actions. Capability checks happen in the
// presentation layer via Role.Can.
type StaffService struct {
	directory StaffDirectory
	log       zerolog.Logger
}

// NewStaffService creates a new staff service.
func NewStaffService(directory StaffDirectory, log zerolog.Logger) *StaffService {
	return &StaffService{directory: directory, log: log}
}

// List retrieves all staff accounts.
func (s *StaffService) List(ctx context.Context) ([]*repository.User, error) {
	users, err := s.directory.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return users, nil
}

// SetActive enables or disables an account.
func (s *StaffService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.directory.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	s.log.Info().Str("user_id", id).Bool("active", active).Msg("Account active flag changed")
	return nil
}

// Unlock clears the attempt counter and lock for an account.
func (s *StaffService) Unlock(ctx context.Context, id string) error {
	if err := s.directory.ClearLock(ctx, id); err != nil {
		return fmt.Errorf("failed to unlock account: %w", err)
	}
	s.log.Info().Str("user_id", id).Msg("Account unlocked")
	return nil
}
