package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yukikurage/team-task-board/internal/constants"
	"github.com/yukikurage/team-task-board/internal/models"
	"github.com/yukikurage/team-task-board/internal/repository"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	deptRepo repository.DepartmentRepository
	isAdmin  func(email string) bool
}

// NewAuthService creates a new AuthService. isAdmin decides which emails
// see every task.
func NewAuthService(userRepo repository.UserRepository, deptRepo repository.DepartmentRepository, isAdmin func(email string) bool) *AuthService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &AuthService{
		userRepo: userRepo,
		deptRepo: deptRepo,
		isAdmin:  isAdmin,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Email        string `validate:"required,email"`
	Password     string
	FullName     string `validate:"max=255"`
	DepartmentID *string
}

// Signup creates a new user profile.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	var departmentID *string
	if input.DepartmentID != nil && *input.DepartmentID != "" {
		if _, err := s.deptRepo.FindByID(ctx, *input.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, fmt.Errorf("failed to find department: %w", err)
		}
		departmentID = input.DepartmentID
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hashedPassword),
		DepartmentID: departmentID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// Actor loads the user and resolves the access scope it acts with.
func (s *AuthService) Actor(ctx context.Context, userID string) (*Actor, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	actor := &Actor{
		ID:      user.ID,
		Email:   user.Email,
		IsAdmin: s.isAdmin(user.Email),
	}
	if user.DepartmentID != nil {
		actor.DepartmentID = *user.DepartmentID
	}
	return actor, nil
}

// IsAdmin reports whether email belongs to an administrator.
func (s *AuthService) IsAdmin(email string) bool {
	return s.isAdmin(email)
}
