package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/helpers"
	"github.com/roamly/api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type RegisterPayload struct {
	Name     string      `json:"name" validate:"required,min=2"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Role     models.Role `json:"role"`
	Phone    string      `json:"phone"`
	Address  string      `json:"address"`
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserService struct {
	users     models.UserRepo
	jwtSecret string
	jwtTTL    time.Duration
	logger    *slog.Logger
}

func NewUserService(users models.UserRepo, jwtSecret string, jwtTTL time.Duration, logger *slog.Logger) *UserService {
	return &UserService{users: users, jwtSecret: jwtSecret, jwtTTL: jwtTTL, logger: logger}
}

// Register creates a tourist or guide account. Admin accounts are never
// self-served.
func (s *UserService) Register(ctx context.Context, payload RegisterPayload) (*models.User, error) {
	if err := models.Validate.Struct(payload); err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("invalid registration payload: %v", err))
	}
	if payload.Role == "" {
		payload.Role = models.RoleTourist
	}
	if payload.Role != models.RoleTourist && payload.Role != models.RoleGuide {
		return nil, apperr.BadRequest("role must be TOURIST or GUIDE")
	}
	if !helpers.IsPasswordStrong(payload.Password) {
		return nil, apperr.BadRequest("password must be at least 8 characters with upper, lower, digit and special characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	now := time.Now()
	user := &models.User{
		Name:      payload.Name,
		Email:     payload.Email,
		Password:  string(hash),
		Role:      payload.Role,
		Phone:     payload.Phone,
		Address:   payload.Address,
		IsActive:  models.StateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if payload.Role == models.RoleGuide {
		user.GuideProfile = &models.GuideProfile{}
	} else {
		user.TouristProfile = &models.TouristProfile{}
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("an account with this email already exists")
		}
		return nil, apperr.Internal("failed to create user", err)
	}
	return created, nil
}

// Login verifies credentials and returns an access token.
func (s *UserService) Login(ctx context.Context, payload LoginPayload) (string, *models.User, error) {
	if err := models.Validate.Struct(payload); err != nil {
		return "", nil, apperr.BadRequest(fmt.Sprintf("invalid login payload: %v", err))
	}

	user, err := s.users.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, apperr.Unauthorized("invalid email or password")
		}
		return "", nil, apperr.Internal("failed to load user", err)
	}
	if user.IsDeleted {
		return "", nil, apperr.Unauthorized("invalid email or password")
	}
	if user.IsActive == models.StateBlocked {
		return "", nil, apperr.Forbidden("this account has been blocked")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		return "", nil, apperr.Unauthorized("invalid email or password")
	}

	token, err := helpers.SignAccessToken(user, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, apperr.Internal("failed to issue token", err)
	}
	return token, user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid user id")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return user, nil
}

// UpdateProfile applies an explicit patch. Users may only edit their own
// profile, admins anyone's.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, id string, patch models.UserPatch) (*models.User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid user id")
	}
	if userID != actor.ID && !actor.Role.IsAdmin() {
		return nil, apperr.Forbidden("you can only update your own profile")
	}
	if patch.IsEmpty() {
		return nil, apperr.BadRequest("nothing to update")
	}

	updated, err := s.users.UpdateUser(ctx, userID, patch)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to update user", err)
	}
	return updated, nil
}

// SetActiveState toggles ACTIVE/INACTIVE/BLOCKED, admin only at the route.
func (s *UserService) SetActiveState(ctx context.Context, id string, state models.ActiveState) (*models.User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid user id")
	}
	switch state {
	case models.StateActive, models.StateInactive, models.StateBlocked:
	default:
		return nil, apperr.BadRequest(fmt.Sprintf("invalid active state %q", state))
	}

	updated, err := s.users.UpdateActiveState(ctx, userID, state)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to update user state", err)
	}
	return updated, nil
}

// SoftDeleteUser flags the account deleted, records stay for bookings.
func (s *UserService) SoftDeleteUser(ctx context.Context, id string) error {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.BadRequest("invalid user id")
	}

	if err := s.users.SoftDeleteUser(ctx, userID); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to delete user", err)
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, params map[string]string) ([]*models.User, *models.Meta, error) {
	users, meta, err := s.users.ListUsers(ctx, params)
	if err != nil {
		return nil, nil, apperr.Internal("failed to list users", err)
	}
	return users, meta, nil
}
