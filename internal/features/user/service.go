package user

import (
	"context"
	"errors"
	"strings"
	"time"

	common_models "omnisuite/internal/common/models"
	"omnisuite/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	CreateUser(ctx context.Context, username, password, email, fullName string, isAdmin bool) (*User, error)
	GetByUserNo(ctx context.Context, userNo int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	VerifyPassword(user *User, password string) bool
}

type UserServiceImpl struct {
	Repo         UserRepository
	AuditService audit.AuditService
}

func NewUserService(repo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, username, password, email, fullName string, isAdmin bool) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	existing, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userNo, err := s.Repo.NextUserNo(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:        primitive.NewObjectID(),
		UserNo:    userNo,
		Username:  username,
		Password:  string(hashed),
		Email:     email,
		FullName:  fullName,
		Status:    StatusActive,
		IsAdmin:   isAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "user", user.ID.Hex(), map[string]common_models.Change{
		"username": {New: user.Username},
		"user_no":  {New: user.UserNo},
	})

	return user, nil
}

func (s *UserServiceImpl) GetByUserNo(ctx context.Context, userNo int64) (*User, error) {
	return s.Repo.FindByUserNo(ctx, userNo)
}

func (s *UserServiceImpl) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.Repo.FindByUsername(ctx, username)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]User, error) {
	return s.Repo.List(ctx)
}

func (s *UserServiceImpl) VerifyPassword(user *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
