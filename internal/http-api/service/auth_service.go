package service

import (
	"context"
	"errors"
	"time"

	"mangapress/internal/config"
	"mangapress/internal/http-api/models"
	"mangapress/internal/http-api/repository"
	"mangapress/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims are the verified contents of a bearer token.
type Claims struct {
	UserID string
	Role   models.Role
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (token string, user *models.User, err error)
	ValidateToken(tokenString string) (*Claims, error)
	// ResolveUser verifies the token and loads the referenced user.
	// Returns ErrInvalidToken for a bad token and ErrNotFound when the
	// token is valid but the user no longer exists.
	ResolveUser(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: cfg.JWTSecret,
	}
}

// Register creates a viewer account with a zero coin balance.
func (s *authService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	// Check if username exists
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrNameInUse
	}

	// Check if email exists
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Role:      models.RoleViewer,
		Coins:     0,
		Following: []string{},
		Followers: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique indexes catch the race the pre-checks can miss.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		// User not found: dummy compare to mitigate timing attacks (always take same time)
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// generateToken signs the user's id and role. Tokens carry no expiry
// and there is no revocation list: rotating the signing secret is the
// only way to invalidate issued tokens.
func (s *authService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := mapClaims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}
	roleStr, ok := mapClaims["role"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	role := models.Role(roleStr)
	if !role.Valid() {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: userID, Role: role}, nil
}

func (s *authService) ResolveUser(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	return user, nil
}
