package service

import (
	"context"

	"github.com/google/uuid"

	"strefex/internal/model"
	"strefex/internal/repository"
	"strefex/pkg/apperror"
	"strefex/pkg/password"
)

// UserService is company-user administration. Every operation is scoped to
// the caller's company; the company id is a parameter resolved from the
// token, never read from the request body.
type UserService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

// NewUserService creates the user administration service
func NewUserService(users repository.UserRepository, roles repository.RoleRepository) *UserService {
	return &UserService{users: users, roles: roles}
}

// CreateUserRequest is the input for Create
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	RoleCode string `json:"role_code,omitempty"`
}

// UpdateUserRequest is the input for Update. Nil fields are left untouched.
type UpdateUserRequest struct {
	FullName *string `json:"full_name"`
	RoleCode *string `json:"role_code"`
	Active   *bool   `json:"active"`
	Password *string `json:"password"`
}

// List returns one page of the company's users with the unfiltered total
func (s *UserService) List(ctx context.Context, companyID uuid.UUID, params repository.ListParams) ([]model.User, int64, error) {
	users, err := s.users.List(ctx, companyID, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx, companyID, params)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Get returns one user in the company
func (s *UserService) Get(ctx context.Context, id, companyID uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, id, companyID)
}

// Create adds a user to the company
func (s *UserService) Create(ctx context.Context, companyID uuid.UUID, req CreateUserRequest) (*model.User, error) {
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email, companyID); err == nil {
		return nil, apperror.Conflict("email already registered")
	} else if apperror.KindOf(err) != apperror.KindNotFound {
		return nil, err
	}

	user := &model.User{
		Email:    req.Email,
		FullName: req.FullName,
		Active:   true,
	}
	if req.RoleCode != "" {
		role, err := s.roles.GetByCode(ctx, req.RoleCode, companyID)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindNotFound {
				return nil, apperror.ValidationFailed("unknown role: " + req.RoleCode)
			}
			return nil, err
		}
		user.RoleID = &role.ID
		user.Role = role
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hashed

	if err := s.users.Create(ctx, companyID, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update patches a user in the company
func (s *UserService) Update(ctx context.Context, id, companyID uuid.UUID, req UpdateUserRequest) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	patch := repository.UserPatch{
		FullName: req.FullName,
		Active:   req.Active,
	}
	if req.RoleCode != nil {
		role, err := s.roles.GetByCode(ctx, *req.RoleCode, companyID)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindNotFound {
				return nil, apperror.ValidationFailed("unknown role: " + *req.RoleCode)
			}
			return nil, err
		}
		patch.RoleID = &role.ID
		user.Role = role
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hashed, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hashed
	}

	if err := s.users.Update(ctx, user, patch); err != nil {
		return nil, err
	}
	return user, nil
}
