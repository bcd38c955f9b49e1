package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	domainaccount "innstay/internal/domain/account"
	domainauth "innstay/internal/domain/auth"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
	ErrAccountBlocked     = errors.New("auth: account blocked")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

type Service struct {
	Accounts   domainaccount.Repository
	Sessions   domainauth.SessionStore
	Passwords  PasswordHasher
	Tokens     TokenGenerator
	SessionTTL time.Duration
	Logger     *slog.Logger
}

type RegisterParams struct {
	Email     string
	Name      string
	Phone     string
	Password  string
	WantToLet bool
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	Account *domainaccount.Account
	Token   string
}

type ResolveResult struct {
	Account *domainaccount.Account
	Session *domainauth.Session
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(strings.ToLower(params.Email))
	name := strings.TrimSpace(params.Name)
	if email == "" {
		return nil, domainaccount.ErrEmailRequired
	}
	if name == "" {
		return nil, domainaccount.ErrNameRequired
	}
	if err := s.validatePassword(params.Password); err != nil {
		return nil, err
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	roles := []domainaccount.Role{domainaccount.RoleGuest}
	if params.WantToLet {
		roles = append(roles, domainaccount.RoleOwner)
	}
	acc, err := domainaccount.New(domainaccount.CreateParams{
		ID:           domainaccount.ID(uuid.NewString()),
		Email:        email,
		Name:         name,
		Phone:        params.Phone,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Accounts.Save(ctx, acc); err != nil {
		return nil, err
	}
	token, err := s.issueSession(ctx, acc)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("account registered", "account_id", acc.ID, "email", acc.Email, "roles", acc.Roles)
	}
	return &AuthResult{Account: acc, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	acc, err := s.Accounts.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainaccount.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if acc.Blocked {
		return nil, ErrAccountBlocked
	}
	if err := s.Passwords.Compare(acc.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.issueSession(ctx, acc)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("account authenticated", "account_id", acc.ID)
	}
	return &AuthResult{Account: acc, Token: token}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, domainauth.Token(token)); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("session terminated")
	}
	return nil
}

func (s *Service) ResolveToken(ctx context.Context, token string) (*ResolveResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domainauth.ErrTokenRequired
	}
	session, err := s.Sessions.Get(ctx, domainauth.Token(token))
	if err != nil {
		return nil, err
	}
	acc, err := s.Accounts.ByID(ctx, session.AccountID)
	if err != nil {
		_ = s.Sessions.Delete(ctx, session.Token)
		if errors.Is(err, domainaccount.ErrNotFound) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	if acc.Blocked {
		_ = s.Sessions.DeleteByAccount(ctx, acc.ID)
		return nil, ErrAccountBlocked
	}
	return &ResolveResult{Account: acc, Session: session}, nil
}

func (s *Service) issueSession(ctx context.Context, acc *domainaccount.Account) (string, error) {
	token, err := s.Tokens.NewToken()
	if err != nil {
		return "", err
	}
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:     domainauth.Token(token),
		AccountID: acc.ID,
		Roles:     append([]domainaccount.Role(nil), acc.Roles...),
		TTL:       s.sessionTTL(),
		Now:       time.Now(),
	})
	if err != nil {
		return "", err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 24 * time.Hour
}

func (s *Service) validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Accounts == nil:
		return errors.New("auth: account repository required")
	case s.Sessions == nil:
		return errors.New("auth: session store required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token generator required")
	default:
		return nil
	}
}
