package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/repos"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Register(ctx context.Context, username, password, displayName string) (*types.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// ParseAccessToken returns the operator username from a valid access token.
	ParseAccessToken(tokenString string) (string, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:           db,
		log:          baseLog.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: []byte(jwtSecretKey),
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, username, password, displayName string) (*types.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, NewValidationError("username is required")
	}
	if len(password) < 8 {
		return nil, NewValidationError("password must be at least 8 characters")
	}

	exists, err := as.userRepo.UsernameExists(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, &ConflictError{Message: "username already taken"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		ID:          uuid.New(),
		Username:    username,
		Password:    string(hashed),
		DisplayName: strings.TrimSpace(displayName),
	}
	if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	as.log.Info("Operator registered", "username", username)
	return user, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, NewValidationError("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, NewValidationError("invalid username or password")
	}
	return as.issueTokens(user.Username)
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := as.parseToken(refreshToken)
	if err != nil {
		return nil, NewValidationError("invalid refresh token")
	}
	if kind, _ := claims["kind"].(string); kind != "refresh" {
		return nil, NewValidationError("invalid refresh token")
	}
	username, _ := claims["sub"].(string)
	if username == "" {
		return nil, NewValidationError("invalid refresh token")
	}

	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, NewValidationError("invalid refresh token")
	}
	return as.issueTokens(user.Username)
}

func (as *authService) ParseAccessToken(tokenString string) (string, error) {
	claims, err := as.parseToken(tokenString)
	if err != nil {
		return "", err
	}
	if kind, _ := claims["kind"].(string); kind != "access" {
		return "", fmt.Errorf("not an access token")
	}
	username, _ := claims["sub"].(string)
	if username == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return username, nil
}

func (as *authService) issueTokens(username string) (*TokenPair, error) {
	access, err := as.signToken(username, "access", as.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := as.signToken(username, "refresh", as.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (as *authService) signToken(username, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  username,
		"kind": kind,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(as.jwtSecretKey)
}

func (as *authService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return as.jwtSecretKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
