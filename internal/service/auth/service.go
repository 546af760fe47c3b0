// Package auth implements account registration, login and JWT session
// verification.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/bakehouse/internal/config"
	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
)

// Store is the persistence surface the auth service needs.
type Store interface {
	InsertUser(ctx context.Context, user *models.User) error
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error)
}

// Service exposes authentication operations.
type Service struct {
	store     Store
	secret    []byte
	ttl       time.Duration
	adminCode string
	logger    *zap.Logger
}

// NewService builds the auth service from the auth configuration.
func NewService(store Store, cfg config.AuthConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		secret:    []byte(cfg.JWTSecret),
		ttl:       time.Duration(cfg.TokenTTL) * time.Hour,
		adminCode: cfg.AdminCode,
		logger:    logger,
	}
}

// RegisterInput carries a new account's fields. Role defaults to staff;
// registering an admin requires the configured admin code.
type RegisterInput struct {
	Username  string
	Password  string
	Name      string
	Email     string
	Phone     string
	Address   string
	Role      string
	AdminCode string
}

// Register creates an account and issues a session token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	var violations []string
	if in.Username == "" {
		violations = append(violations, "Please provide a username")
	}
	if len(in.Password) < 6 {
		violations = append(violations, "Password must be at least 6 characters")
	}
	if in.Name == "" {
		violations = append(violations, "Please provide a name")
	}
	role := in.Role
	if role == "" {
		role = models.RoleStaff
	}
	if !models.ValidRole(role) {
		violations = append(violations, fmt.Sprintf("Invalid role: %s", role))
	}
	if len(violations) > 0 {
		return nil, "", errs.Validation(violations...)
	}

	if role == models.RoleAdmin && in.AdminCode != s.adminCode {
		return nil, "", errs.Unauthorized("Invalid admin code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: in.Username,
		Password: string(hash),
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
		Role:     role,
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", zap.String("username", user.Username), zap.String("role", user.Role))
	return user, token, nil
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, "", errs.Unauthorized("Invalid credentials")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", errs.Unauthorized("Invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", zap.String("username", user.Username))
	return user, token, nil
}

// Authenticate parses a session token and loads its account.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	id, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.store.UserByID(ctx, id)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.Unauthorized("Account no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// User loads an account by id.
func (s *Service) User(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.store.UserByID(ctx, id)
}

// UpdateProfile applies contact fields to an account.
func (s *Service) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email, phone, address string) (*models.User, error) {
	if name == "" {
		return nil, errs.Validationf("Please provide a name")
	}
	return s.store.UpdateUserProfile(ctx, id, bson.M{
		"name":    name,
		"email":   email,
		"phone":   phone,
		"address": address,
	})
}

func (s *Service) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *Service) parseToken(tokenString string) (primitive.ObjectID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, errs.Unauthorized("Not authorized to access this route")
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return primitive.NilObjectID, errs.Unauthorized("Not authorized to access this route")
	}
	return id, nil
}
