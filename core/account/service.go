// Package account - User management for the estimator service
package account

import (
	"context"

	"go.uber.org/zap"

	"migration-estimator/core/types"
	"migration-estimator/internal/errors"
	"migration-estimator/internal/validation"
)

// Store is the persistence the account service needs
type Store interface {
	CreateUser(ctx context.Context, user *types.User) error
	GetUser(ctx context.Context, id uint) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	ListUsers(ctx context.Context) ([]types.User, error)
	UpdateUser(ctx context.Context, id uint, update types.UserUpdate) (*types.User, error)
}

// Tracker records audit events
type Tracker interface {
	Track(ctx context.Context, actorID uint, entity, action string, entityID uint, diff map[string]interface{})
}

// Service manages user accounts
type Service struct {
	store   Store
	tracker Tracker
	log     *zap.Logger
}

// NewService creates an account service
func NewService(store Store, tracker Tracker, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, tracker: tracker, log: log.Named("account")}
}

func requireAdmin(p types.Principal) error {
	if !p.Can(types.RoleAdmin) {
		return errors.Forbidden("admin role required")
	}
	return nil
}

// List returns all users, newest first
func (s *Service) List(ctx context.Context, p types.Principal) ([]types.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

// Create adds an account; the role defaults to end_user
func (s *Service) Create(ctx context.Context, p types.Principal, in types.NewUser) (*types.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	_, err := s.store.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, errors.Conflict("user with this email already exists").WithContext("email", in.Email)
	case !errors.IsType(err, errors.TypeNotFound):
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = types.RoleEndUser
	}
	user := &types.User{
		Email:      in.Email,
		Role:       role,
		ExternalID: in.ExternalID,
		IsActive:   true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	s.tracker.Track(ctx, p.UserID, types.EntityUser, types.ActionCreate, user.ID, map[string]interface{}{
		"email": user.Email,
		"role":  string(user.Role),
	})
	return user, nil
}

// Bootstrap ensures an active account with email exists, creating it with
// role when missing. It bypasses caller checks and is meant for operators
// seeding the first admin. created reports whether a row was inserted.
func (s *Service) Bootstrap(ctx context.Context, email string, role types.Role) (user *types.User, created bool, err error) {
	if err := validation.Struct(types.NewUser{Email: email, Role: role}); err != nil {
		return nil, false, err
	}
	if role == "" {
		role = types.RoleEndUser
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsActive || existing.Role != role {
			s.log.Warn("bootstrap user already exists with different state",
				zap.Uint("user_id", existing.ID),
				zap.String("role", string(existing.Role)),
				zap.Bool("is_active", existing.IsActive))
		}
		return existing, false, nil
	case !errors.IsType(err, errors.TypeNotFound):
		return nil, false, err
	}

	user = &types.User{Email: email, Role: role, IsActive: true}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, false, err
	}

	s.log.Info("bootstrap user created", zap.Uint("user_id", user.ID), zap.String("role", string(role)))
	s.tracker.Track(ctx, user.ID, types.EntityUser, types.ActionCreate, user.ID, map[string]interface{}{
		"email":  user.Email,
		"role":   string(user.Role),
		"source": "bootstrap",
	})
	return user, true, nil
}

// Get returns a user; callers other than admins may only read themselves
func (s *Service) Get(ctx context.Context, p types.Principal, id uint) (*types.User, error) {
	if p.UserID != id && !p.Can(types.RoleAdmin) {
		return nil, errors.Forbidden("not allowed to view this user")
	}
	return s.store.GetUser(ctx, id)
}

// Profile returns the caller's own account
func (s *Service) Profile(ctx context.Context, p types.Principal) (*types.User, error) {
	return s.store.GetUser(ctx, p.UserID)
}

// Update changes role and/or active flag
func (s *Service) Update(ctx context.Context, p types.Principal, id uint, update types.UserUpdate) (*types.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if err := validation.Struct(update); err != nil {
		return nil, err
	}
	if update.Empty() {
		return nil, errors.New(errors.TypeValidation, "no fields to update")
	}

	before, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	after, err := s.store.UpdateUser(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.tracker.Track(ctx, p.UserID, types.EntityUser, types.ActionUpdate, id, userDiff(before, after))
	return after, nil
}

// Deactivate soft-deletes an account by clearing its active flag
func (s *Service) Deactivate(ctx context.Context, p types.Principal, id uint) error {
	if err := requireAdmin(p); err != nil {
		return err
	}

	inactive := false
	before, err := s.store.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.store.UpdateUser(ctx, id, types.UserUpdate{IsActive: &inactive}); err != nil {
		return err
	}

	s.log.Info("user deactivated", zap.Uint("user_id", id))
	s.tracker.Track(ctx, p.UserID, types.EntityUser, types.ActionDelete, id, map[string]interface{}{
		"is_active": map[string]interface{}{"old": before.IsActive, "new": false},
	})
	return nil
}

func userDiff(before, after *types.User) map[string]interface{} {
	diff := map[string]interface{}{}
	if before.Role != after.Role {
		diff["role"] = map[string]interface{}{"old": string(before.Role), "new": string(after.Role)}
	}
	if before.IsActive != after.IsActive {
		diff["is_active"] = map[string]interface{}{"old": before.IsActive, "new": after.IsActive}
	}
	return diff
}
