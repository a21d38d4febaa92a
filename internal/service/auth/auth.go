// internal/service/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"prorata-service/internal/domain/account"
	xerrors "prorata-service/internal/pkg/errors"
	"prorata-service/internal/pkg/session"
	"prorata-service/internal/pkg/token"
	"prorata-service/internal/repository/postgres"
)

type AuthService struct {
	repo     *postgres.AuthRepository
	tokens   *token.Manager
	sessions *session.Manager
	limiter  *session.RateLimiter
	logger   *zap.Logger
}

func NewAuthService(
	repo *postgres.AuthRepository,
	tokens *token.Manager,
	sessions *session.Manager,
	limiter *session.RateLimiter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		sessions: sessions,
		limiter:  limiter,
		logger:   logger,
	}
}

// Register creates a new account with a bcrypt password hash
func (s *AuthService) Register(ctx context.Context, req *account.RegisterRequest) (*account.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acc := &account.Account{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Roles:        []string{account.RoleUser},
	}
	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		if xerrors.Is(err, xerrors.ErrDuplicateEntry) {
			return nil, xerrors.ErrDuplicateEntry
		}
		return nil, err
	}

	s.logger.Info("account registered", zap.Int64("account_id", acc.ID))
	return acc, nil
}

// Login verifies credentials, opens a redis session and issues an access token
func (s *AuthService) Login(ctx context.Context, req *account.LoginRequest, ip, userAgent string) (*account.LoginResponse, error) {
	allowed, remaining, err := s.limiter.CheckLoginAttempt(ctx, ip, req.Email)
	if err != nil {
		s.logger.Warn("login rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		s.logger.Warn("login rate limited",
			zap.String("ip", ip),
			zap.Int64("remaining", remaining),
		)
		return nil, xerrors.ErrUnauthorized
	}

	acc, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Same failure for unknown email and bad password
		return nil, xerrors.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	now := time.Now()
	sess := &session.SessionData{
		ID:         ulid.Make().String(),
		AccountID:  acc.ID,
		Email:      acc.Email,
		Roles:      acc.Roles,
		IPAddress:  ip,
		UserAgent:  userAgent,
		LoginAt:    now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(s.tokens.TTL()),
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.tokens.Generate(acc.ID, sess.ID, acc.Roles)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.ResetLoginAttempts(ctx, ip, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	s.logger.Info("login",
		zap.Int64("account_id", acc.ID),
		zap.String("session_id", sess.ID),
	)

	return &account.LoginResponse{AccessToken: accessToken, Account: acc}, nil
}

// Logout deletes the current session; the access token dies with it
func (s *AuthService) Logout(ctx context.Context, accountID int64, sessionID string) error {
	if err := s.sessions.DeleteSession(ctx, accountID, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("logout", zap.Int64("account_id", accountID))
	return nil
}

// LogoutAll deletes every session for the account
func (s *AuthService) LogoutAll(ctx context.Context, accountID int64) error {
	return s.sessions.DeleteAllSessions(ctx, accountID)
}

// ValidateToken verifies an access token and confirms its session is alive
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*token.Claims, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	if _, err := s.sessions.GetSession(ctx, claims.AccountID, claims.SessionID); err != nil {
		return nil, xerrors.ErrSessionExpired
	}

	// Best effort; a failed touch never blocks the request
	if err := s.sessions.TouchSession(ctx, claims.AccountID, claims.SessionID); err != nil {
		s.logger.Debug("failed to touch session", zap.Error(err))
	}

	return claims, nil
}

// GetAccount returns the account for a validated identity
func (s *AuthService) GetAccount(ctx context.Context, id int64) (*account.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// RecordVisit stores the time of the account's latest request
func (s *AuthService) RecordVisit(ctx context.Context, id int64) error {
	return s.repo.TouchLastVisit(ctx, id)
}
