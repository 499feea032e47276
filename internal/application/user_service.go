package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/meetingroom-booking/internal/booking"
	"github.com/example/meetingroom-booking/internal/persistence"
)

// UserService orchestrates validation, authorization, and persistence for
// user accounts. Every operation is admin-only.
type UserService struct {
	users       persistence.UserRepository
	idGenerator func() string
	now         func() time.Time
	hashParams  Argon2idParams
}

// NewUserService wires dependencies for the user service.
func NewUserService(users persistence.UserRepository, idGenerator func() string, now func() time.Time) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{users: users, idGenerator: idGenerator, now: now, hashParams: DefaultArgon2idParams}
}

// CreateUser validates input and persists a new user for administrators.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if !params.Principal.IsAdmin {
		return User{}, ErrUnauthorized
	}

	normalized := normalizeUserInput(params.Input)
	vErr := validateUserInput(normalized, true)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	hash, err := CreatePasswordHash(normalized.Password, s.hashParams)
	if err != nil {
		return User{}, err
	}

	record := persistence.User{
		ID:           s.idGenerator(),
		Email:        normalized.Email,
		DisplayName:  normalized.DisplayName,
		PasswordHash: hash,
		IsAdmin:      normalized.IsAdmin,
		CreatedAt:    s.now(),
	}
	record.UpdatedAt = record.CreatedAt

	if s.users == nil {
		return toUser(record), nil
	}

	if err := s.users.CreateUser(ctx, record); err != nil {
		return User{}, mapRepoError(err)
	}

	return toUser(record), nil
}

// UpdateUser validates input and updates an existing user for administrators.
// An empty password leaves the stored hash unchanged.
func (s *UserService) UpdateUser(ctx context.Context, params UpdateUserParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if !params.Principal.IsAdmin {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	existing, err := s.users.GetUser(ctx, params.UserID)
	if err != nil {
		return User{}, mapRepoError(err)
	}

	normalized := normalizeUserInput(params.Input)
	vErr := validateUserInput(normalized, normalized.Password != "")
	if vErr.HasErrors() {
		return User{}, vErr
	}

	updated := existing
	updated.Email = normalized.Email
	updated.DisplayName = normalized.DisplayName
	updated.IsAdmin = normalized.IsAdmin
	updated.Disabled = params.Disabled
	updated.UpdatedAt = s.now()

	if normalized.Password != "" {
		hash, err := CreatePasswordHash(normalized.Password, s.hashParams)
		if err != nil {
			return User{}, err
		}
		updated.PasswordHash = hash
	}

	if err := s.users.UpdateUser(ctx, updated); err != nil {
		return User{}, mapRepoError(err)
	}

	return toUser(updated), nil
}

// DeleteUser removes a user when requested by an administrator.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.users == nil {
		return fmt.Errorf("user repository not configured")
	}
	if principal.UserID == userID {
		vErr := &ValidationError{}
		vErr.add("user_id", "administrators cannot delete their own account")
		return vErr
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return mapRepoError(err)
	}

	return nil
}

// GetUser returns a single user for administrators.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, ErrNotFound
	}

	record, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return User{}, mapRepoError(err)
	}

	return toUser(record), nil
}

// ListUsers returns every account, ordered by email, for administrators.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}
	if s.users == nil {
		return nil, nil
	}

	records, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	users := make([]User, 0, len(records))
	for _, record := range records {
		users = append(users, toUser(record))
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].Email != users[j].Email {
			return users[i].Email < users[j].Email
		}
		return users[i].ID < users[j].ID
	})

	return users, nil
}

func normalizeUserInput(input UserInput) UserInput {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	return input
}

const minPasswordLength = 8

func validateUserInput(input UserInput, requirePassword bool) *ValidationError {
	vErr := &ValidationError{}

	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if !booking.ValidEmail(input.Email) {
		vErr.add("email", "email is not a valid address")
	}
	if input.DisplayName == "" {
		vErr.add("display_name", "display name is required")
	}
	if requirePassword {
		if input.Password == "" {
			vErr.add("password", "password is required")
		} else if len(input.Password) < minPasswordLength {
			vErr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
	}

	return vErr
}
