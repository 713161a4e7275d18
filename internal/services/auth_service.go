package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is how long a login stays valid
const DefaultSessionTTL = 8 * time.Hour

// Claims is the JWT payload of an operator session
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles operator login and session tokens
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
	logger      logrus.FieldLogger
}

// NewAuthService creates a new AuthService. A nil clock means time.Now.
func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	secret string,
	ttl time.Duration,
	now func() time.Time,
	logger logrus.FieldLogger,
) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         now,
		logger:      logger,
	}
}

// Login checks credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.WithField("username", req.Username).Warn("Login for unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.WithField("username", user.Username).Warn("Login with wrong password")
		return nil, ErrInvalidCredentials
	}

	session := &models.Session{
		TokenID:   uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  s.now(),
		ExpiresAt: s.now().Add(s.ttl),
	}
	token, err := s.sign(session)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("username", user.Username).Info("Operator logged in")
	return &models.LoginResponse{Token: token, ExpiresAt: session.ExpiresAt, User: session}, nil
}

// ValidateToken parses a token and returns its session. Expired and revoked
// tokens fail with ErrSessionExpired.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if s.sessionRepo != nil && claims.ID != "" {
		revoked, err := s.sessionRepo.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrSessionExpired
		}
	}

	session := &models.Session{
		TokenID:  claims.ID,
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Logout revokes the session's token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, session *models.Session) error {
	if s.sessionRepo == nil || session.TokenID == "" {
		return nil
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if err := s.sessionRepo.Revoke(ctx, session.TokenID, ttl); err != nil {
		return err
	}
	s.logger.WithField("username", session.Username).Info("Operator logged out")
	return nil
}

// CreateUser hashes the password and stores a new operator
func (s *AuthService) CreateUser(ctx context.Context, username, password, role string) (*models.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, newError(KindInvalidRecord, "username and password are required")
	}
	if role == "" {
		role = models.RoleCommittee
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.AdminUser{Username: username, PasswordHash: string(hash), Role: role}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) sign(session *models.Session) (string, error) {
	claims := Claims{
		Username: session.Username,
		Role:     session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.TokenID,
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
