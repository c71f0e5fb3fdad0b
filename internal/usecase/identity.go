package usecase

import (
	"context"
	"strings"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"
	"bookingdesk/internal/domain/repository"
	"bookingdesk/pkg/logger"
)

// RegisterInput is the body of a user registration
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=agent1 agent2 account admin"`
}

// SupplierInput is the body of a supplier creation
type SupplierInput struct {
	Name        string  `json:"name" validate:"required"`
	ContactInfo *string `json:"contact_info,omitempty"`
}

// LoginResult carries the issued token and the user it was issued for
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *entity.User `json:"user"`
}

// Identity manages users, credentials and suppliers
type Identity struct {
	users     repository.UserRepository
	suppliers repository.SupplierRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	audit     *AuditTrail
	logger    logger.Logger
	now       Clock
	newID     IDGenerator
}

// NewIdentity creates the identity usecase
func NewIdentity(
	users repository.UserRepository,
	suppliers repository.SupplierRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	audit *AuditTrail,
	logger logger.Logger,
) *Identity {
	return &Identity{
		users:     users,
		suppliers: suppliers,
		hasher:    hasher,
		tokens:    tokens,
		audit:     audit,
		logger:    logger,
		now:       defaultClock,
		newID:     defaultID,
	}
}

// Register creates a user; only admins may register accounts
func (s *Identity) Register(ctx context.Context, actor entity.Actor, in RegisterInput) (*entity.User, error) {
	if err := requireRole(actor, entity.RolesAdministrator); err != nil {
		return nil, err
	}
	user, err := s.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, entity.ActionUserCreated, entity.EntityUser, user.ID, map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})
	return user, nil
}

// CreateUser validates and stores a new active user without an actor.
// It backs both Register and the seed command.
func (s *Identity) CreateUser(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	email := in.Email

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           s.newID(),
		Email:        email,
		Name:         in.Name,
		Role:         entity.Role(in.Role),
		IsActive:     true,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created", "userID", user.ID, "role", user.Role)
	return user, nil
}

// Login checks credentials and issues a bearer token
func (s *Identity) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("incorrect email or password")
		}
		return nil, err
	}
	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		return nil, apperr.Unauthenticated("incorrect email or password")
	}
	if !user.IsActive {
		return nil, apperr.Unauthenticated("user is inactive")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, TokenType: "bearer", User: user}, nil
}

// Me returns the stored profile of the caller
func (s *Identity) Me(ctx context.Context, actor entity.Actor) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *Identity) ListUsers(ctx context.Context, actor entity.Actor) ([]*entity.User, error) {
	if err := requireRole(actor, entity.RolesAdministrator); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

func (s *Identity) GetUser(ctx context.Context, actor entity.Actor, id string) (*entity.User, error) {
	if err := requireRole(actor, entity.RolesAdministrator); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// UpdateUser applies an admin edit of name, role or active flag
func (s *Identity) UpdateUser(ctx context.Context, actor entity.Actor, id string, patch entity.UserPatch) (*entity.User, error) {
	if err := requireRole(actor, entity.RolesAdministrator); err != nil {
		return nil, err
	}
	if patch.Role != nil {
		if _, ok := entity.ParseRole(string(*patch.Role)); !ok {
			return nil, apperr.Validation("role", "must be one of: agent1 agent2 account admin")
		}
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Validation("name", "is required")
	}
	if patch.Empty() {
		return s.users.FindByID(ctx, id)
	}
	if err := s.users.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if patch.Name != nil {
		changes["name"] = *patch.Name
	}
	if patch.Role != nil {
		changes["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		changes["is_active"] = *patch.IsActive
	}
	s.audit.Record(ctx, actor, entity.ActionUserUpdated, entity.EntityUser, id, changes)
	return s.users.FindByID(ctx, id)
}

// DeleteUser deactivates the account; users are never removed
func (s *Identity) DeleteUser(ctx context.Context, actor entity.Actor, id string) error {
	if err := requireRole(actor, entity.RolesAdministrator); err != nil {
		return err
	}
	if err := s.users.Update(ctx, id, entity.UserPatch{IsActive: ptr(false)}); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, entity.ActionUserDeleted, entity.EntityUser, id, map[string]interface{}{"is_active": false})
	return nil
}

// CreateSupplier stores a new supplier; admin only
func (s *Identity) CreateSupplier(ctx context.Context, actor entity.Actor, in SupplierInput) (*entity.Supplier, error) {
	if err := requireRole(actor, entity.RolesAdministrator); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	supplier := &entity.Supplier{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		ContactInfo: in.ContactInfo,
		CreatedBy:   actor.ID,
		CreatedAt:   s.now(),
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, entity.ActionSupplierCreated, entity.EntitySupplier, supplier.ID, map[string]interface{}{
		"name": supplier.Name,
	})
	return supplier, nil
}

// UpdateSupplier edits name or contact info; admin only
func (s *Identity) UpdateSupplier(ctx context.Context, actor entity.Actor, id string, patch entity.SupplierPatch) (*entity.Supplier, error) {
	if err := requireRole(actor, entity.RolesAdministrator); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Validation("name", "is required")
	}
	if patch.Empty() {
		return s.suppliers.FindByID(ctx, id)
	}
	if err := s.suppliers.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if patch.Name != nil {
		changes["name"] = *patch.Name
	}
	if patch.ContactInfo != nil {
		changes["contact_info"] = *patch.ContactInfo
	}
	s.audit.Record(ctx, actor, entity.ActionSupplierUpdated, entity.EntitySupplier, id, changes)
	return s.suppliers.FindByID(ctx, id)
}

func (s *Identity) ListSuppliers(ctx context.Context) ([]*entity.Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *Identity) GetSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.suppliers.FindByID(ctx, id)
}
