package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/riaziiii/pos-system/internal/repository"
)

const (
	MaxFailedLoginAttempts = 5
	AccountLockDuration    = 30 * time.Minute
)

// User-facing messages. The presentation layer shows these verbatim next to
// the PIN pad.
const (
	msgInvalidPIN      = "Invalid PIN code"
	msgLoginFailed     = "Login failed. Please try again."
	msgNoUser          = "No user logged in"
	msgWrongCurrentPIN = "Current PIN is incorrect"
	msgBadPINFormat    = "PIN must be 6 digits"
	msgPINTaken        = "PIN is already in use by another user"
	msgPINUpdateFailed = "Failed to update PIN"
)

var pinFormat = regexp.MustCompile(`^\d{6}$`)

// Directory is the remote staff-directory contract the auth manager runs
// against. The pgx repository implements it for the hosted deployment; the
// memory store implements it for tests and demo mode.
type Directory interface {
	FindByPin(ctx context.Context, pin string) (*repository.User, error)
	FindActiveByPin(ctx context.Context, pin string) (*repository.User, error)
	FindOtherByPin(ctx context.Context, pin, excludeID string) (*repository.User, error)
	FindByID(ctx context.Context, id string, activeOnly bool) (*repository.User, error)
	UpdateAttempts(ctx context.Context, pin string, attempts int, lockedUntil *time.Time) error
	UpdateOnSuccess(ctx context.Context, id string, lastLogin time.Time) error
	UpdatePin(ctx context.Context, id, newPin string) error
	ClearLock(ctx context.Context, id string) error
}

// SessionStore is the durable single-slot storage for the last authenticated
// identity.
type SessionStore interface {
	Get() (*repository.User, error)
	Set(u *repository.User) error
	Clear() error
}

// AuthResult is the outcome of a login or PIN-change attempt. Message is a
// user-facing string, empty on success. Failures never surface as Go errors;
// they are part of the normal operation outcome.
type AuthResult struct {
	Success bool
	Message string
}

func failure(message string) AuthResult {
	return AuthResult{Message: message}
}

// AuthService decides, for each submitted PIN, whether to grant a session,
// and maintains the failed-attempt and lockout bookkeeping in the directory.
// It owns the single client-side session: constructed at startup, replaced
// on login, cleared on logout.
//
// It is driven by one terminal operator at a time and is not safe for
// concurrent use.
type AuthService struct {
	directory Directory
	sessions  SessionStore
	log       zerolog.Logger
	now       func() time.Time

	current *repository.User
	locked  bool
}

// NewAuthService creates a new auth service.
func NewAuthService(directory Directory, sessions SessionStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		directory: directory,
		sessions:  sessions,
		log:       log,
		now:       time.Now,
	}
}

// CurrentUser returns the authenticated identity, or nil.
func (s *AuthService) CurrentUser() *repository.User {
	return s.current
}

// Authenticated reports whether a session exists.
func (s *AuthService) Authenticated() bool {
	return s.current != nil
}

// Locked reports whether the last failed attempt tripped the lockout, for
// the persistent "temporarily locked" indicator.
func (s *AuthService) Locked() bool {
	return s.locked
}

// RestoreSession rehydrates the session from the local slot. The cached
// identity is revalidated against the directory filtered to active accounts;
// any miss or fault discards the slot and reports unauthenticated. On
// success the in-memory session is the freshly fetched record, picking up
// role or name changes made server-side.
func (s *AuthService) RestoreSession(ctx context.Context) bool {
	cached, err := s.sessions.Get()
	if err != nil {
		s.log.Debug().Err(err).Msg("failed to read cached session")
		_ = s.sessions.Clear()
		return false
	}
	if cached == nil {
		return false
	}

	fresh, err := s.directory.FindByID(ctx, cached.ID, true)
	if err != nil {
		// Not found, deactivated, or unreachable: ambiguity reads as
		// logged out.
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn().Err(err).Msg("session revalidation failed")
		}
		_ = s.sessions.Clear()
		s.current = nil
		return false
	}

	s.current = fresh
	return true
}

// Login runs one PIN submission through the lockout state machine. The PIN
// is deliberately not pre-validated for format here; a malformed PIN matches
// no record and reads as an invalid credential.
func (s *AuthService) Login(ctx context.Context, pin string) AuthResult {
	// Lock check is keyed by PIN value alone, regardless of the active
	// flag, so attempts against a disabled account still honor its lock.
	known, err := s.directory.FindByPin(ctx, pin)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Error().Err(err).Msg("directory lookup failed")
		return failure(msgLoginFailed)
	}

	if known != nil && known.LockedUntil != nil {
		now := s.now()
		if known.LockedUntil.After(now) {
			remaining := int(math.Ceil(known.LockedUntil.Sub(now).Minutes()))
			return failure(fmt.Sprintf("Account locked. Try again in %d minutes.", remaining))
		}
		// Lock window has passed: clear it before the credential check.
		if err := s.directory.UpdateAttempts(ctx, pin, 0, nil); err != nil {
			s.log.Error().Err(err).Msg("failed to clear expired lock")
			return failure(msgLoginFailed)
		}
	}

	user, err := s.directory.FindActiveByPin(ctx, pin)
	if errors.Is(err, repository.ErrNotFound) {
		s.recordFailedAttempt(ctx, pin)
		return failure(msgInvalidPIN)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("directory lookup failed")
		return failure(msgLoginFailed)
	}

	now := s.now()
	if err := s.directory.UpdateOnSuccess(ctx, user.ID, now); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to record successful login")
		return failure(msgLoginFailed)
	}

	user.LoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now

	s.current = user
	s.locked = false
	if err := s.sessions.Set(user); err != nil {
		// The login stands for this process; only restore-on-restart
		// is affected.
		s.log.Warn().Err(err).Msg("failed to persist session")
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("Login successful")
	return AuthResult{Success: true}
}

// recordFailedAttempt bumps the attempt counter for the PIN and arms the
// lock at the threshold. Faults are logged and swallowed; the caller already
// reports an invalid credential.
//
// The counter update is read-modify-write: two near-simultaneous failures
// from different terminals can lose an increment. Accepted limitation of the
// directory contract.
func (s *AuthService) recordFailedAttempt(ctx context.Context, pin string) {
	known, err := s.directory.FindByPin(ctx, pin)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Msg("failed to read attempt counter")
		}
		return
	}

	attempts := known.LoginAttempts + 1
	var lockedUntil *time.Time
	if attempts >= MaxFailedLoginAttempts {
		t := s.now().Add(AccountLockDuration)
		lockedUntil = &t
		s.locked = true
		s.log.Warn().Int("attempts", attempts).Msg("Account locked due to too many failed login attempts")
	}

	if err := s.directory.UpdateAttempts(ctx, pin, attempts, lockedUntil); err != nil {
		s.log.Error().Err(err).Msg("failed to record login attempt")
	}
}

// Logout clears the in-memory session, the local slot and the locked
// indicator. No directory call is made; logout always succeeds.
func (s *AuthService) Logout() {
	if s.current != nil {
		s.log.Info().Str("user_id", s.current.ID).Msg("Logout")
	}
	s.current = nil
	s.locked = false
	if err := s.sessions.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear session slot")
	}
}

// ChangePin replaces the session holder's PIN. Local checks run first, in
// order, before any directory write.
func (s *AuthService) ChangePin(ctx context.Context, oldPin, newPin string) AuthResult {
	if s.current == nil {
		return failure(msgNoUser)
	}
	if s.current.PIN != oldPin {
		return failure(msgWrongCurrentPIN)
	}
	if !pinFormat.MatchString(newPin) {
		return failure(msgBadPINFormat)
	}

	// A fault during the uniqueness probe reads as "free"; the only remote
	// failure this operation reports is the persist below.
	other, err := s.directory.FindOtherByPin(ctx, newPin, s.current.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn().Err(err).Msg("pin uniqueness check failed")
	}
	if other != nil {
		return failure(msgPINTaken)
	}

	if err := s.directory.UpdatePin(ctx, s.current.ID, newPin); err != nil {
		s.log.Error().Err(err).Str("user_id", s.current.ID).Msg("failed to update pin")
		return failure(msgPINUpdateFailed)
	}

	s.current.PIN = newPin
	if err := s.sessions.Set(s.current); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session")
	}

	s.log.Info().Str("user_id", s.current.ID).Msg("PIN changed")
	return AuthResult{Success: true}
}

// ResetLoginAttempts clears the attempt counter and lock for the session
// identity. Best effort: a directory fault is logged, not surfaced.
func (s *AuthService) ResetLoginAttempts(ctx context.Context) {
	if s.current == nil {
		return
	}
	if err := s.directory.ClearLock(ctx, s.current.ID); err != nil {
		s.log.Error().Err(err).Str("user_id", s.current.ID).Msg("failed to reset login attempts")
	}
	s.locked = false
}
