package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"nlquery/internal/common/errors"
	"nlquery/internal/common/logger"
)

// Claims is the identity carried by an issued token.
type Claims struct {
	UserID   int
	Username string
}

// Service issues and verifies JWTs backed by bcrypt-hashed credentials.
type Service struct {
	repo        *Repository
	secret      []byte
	tokenExpiry time.Duration
	bcryptCost  int
	logger      logger.Logger
}

func NewService(repo *Repository, secret string, tokenExpiry time.Duration, bcryptCost int, log logger.Logger) *Service {
	return &Service{
		repo:        repo,
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
		bcryptCost:  bcryptCost,
		logger:      log.WithFields(map[string]interface{}{"component": "auth"}),
	}
}

// Register creates an account and returns a fresh token.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return "", errors.NewUserExistsError(username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.Create(ctx, username, string(hashed))
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", map[string]interface{}{"username": username})
	return s.issueToken(id, username)
}

// Login verifies credentials and returns a fresh token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return "", errors.NewUserNotFoundError(username)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.NewUserNotFoundError(username)
	}

	return s.issueToken(user.ID, user.Username)
}

// VerifyToken parses and validates a token string.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewTokenExpiredError()
		}
		return nil, errors.NewAuthenticationError(err.Error())
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.NewAuthenticationError("invalid token claims")
	}

	id, _ := claims["id"].(float64)
	username, _ := claims["username"].(string)

	return &Claims{UserID: int(id), Username: username}, nil
}

func (s *Service) issueToken(id int, username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenExpiry).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
