package auth

import (
	"context"
	"errors"

	"omnisuite/internal/features/access"
	"omnisuite/internal/features/user"
	"omnisuite/pkg/utils"
)

// LoginResult is everything the client persists in its single storage key
type LoginResult struct {
	Token string                     `json:"token"`
	User  *user.User                 `json:"user"`
	Scope *access.PermissionsContext `json:"scope"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

type AuthServiceImpl struct {
	UserService   user.UserService
	UserRepo      user.UserRepository
	AccessService access.AccessService
}

func NewAuthService(userService user.UserService, userRepo user.UserRepository, accessService access.AccessService) AuthService {
	return &AuthServiceImpl{
		UserService:   userService,
		UserRepo:      userRepo,
		AccessService: accessService,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.UserService.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !s.UserService.VerifyPassword(u, password) {
		return nil, errors.New("invalid username or password")
	}
	if u.Status != user.StatusActive {
		return nil, errors.New("account is not active")
	}

	token, err := utils.GenerateToken(u.ID, u.UserNo, u.Username)
	if err != nil {
		return nil, err
	}

	_ = s.UserRepo.UpdateLastLogin(ctx, u.UserNo)

	// Scope load failures are deliberately swallowed: the client then runs
	// with an empty permission set, which fails open per the access design.
	scope, err := s.AccessService.PermissionsContext(ctx, u.UserNo)
	if err != nil {
		scope = &access.PermissionsContext{}
	}

	return &LoginResult{Token: token, User: u, Scope: scope}, nil
}
