package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainaccount "innstay/internal/domain/account"
	domainauth "innstay/internal/domain/auth"
)

// AccountRepository stores accounts in memory. Not suitable for production.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[domainaccount.ID]*domainaccount.Account
	byEmail map[string]domainaccount.ID
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[domainaccount.ID]*domainaccount.Account),
		byEmail: make(map[string]domainaccount.ID),
	}
}

func (r *AccountRepository) ByID(ctx context.Context, id domainaccount.ID) (*domainaccount.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if acc, ok := r.byID[id]; ok {
		return cloneAccount(acc), nil
	}
	return nil, domainaccount.ErrNotFound
}

func (r *AccountRepository) ByEmail(ctx context.Context, email string) (*domainaccount.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domainaccount.ErrNotFound
	}
	if acc, ok := r.byID[id]; ok {
		return cloneAccount(acc), nil
	}
	return nil, domainaccount.ErrNotFound
}

func (r *AccountRepository) ByRole(ctx context.Context, role domainaccount.Role) ([]*domainaccount.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainaccount.Account, 0)
	for _, acc := range r.byID {
		if acc.HasRole(role) {
			matches = append(matches, cloneAccount(acc))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

func (r *AccountRepository) Save(ctx context.Context, account *domainaccount.Account) error {
	if account == nil {
		return domainaccount.ErrIDRequired
	}
	id := strings.TrimSpace(string(account.ID))
	if id == "" {
		return domainaccount.ErrIDRequired
	}
	emailKey := strings.ToLower(strings.TrimSpace(account.Email))
	if emailKey == "" {
		return domainaccount.ErrEmailRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byEmail[emailKey]; ok && existingID != account.ID {
		return domainaccount.ErrEmailAlreadyUsed
	}
	r.byEmail[emailKey] = account.ID
	r.byID[account.ID] = cloneAccount(account)
	return nil
}

func cloneAccount(a *domainaccount.Account) *domainaccount.Account {
	if a == nil {
		return nil
	}
	copyAccount := *a
	copyAccount.Roles = append([]domainaccount.Role(nil), a.Roles...)
	return &copyAccount
}

// SessionStore keeps bearer sessions in memory.
type SessionStore struct {
	mu           sync.RWMutex
	tokens       map[domainauth.Token]*domainauth.Session
	accountIndex map[domainaccount.ID]map[domainauth.Token]struct{}
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		tokens:       make(map[domainauth.Token]*domainauth.Session),
		accountIndex: make(map[domainaccount.ID]map[domainauth.Token]struct{}),
	}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil {
		return domainauth.ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[session.Token] = cloneSession(session)
	if _, ok := s.accountIndex[session.AccountID]; !ok {
		s.accountIndex[session.AccountID] = make(map[domainauth.Token]struct{})
	}
	s.accountIndex[session.AccountID][session.Token] = struct{}{}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.RLock()
	session, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		_ = s.Delete(ctx, token)
		return nil, domainauth.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.tokens[token]
	if !ok {
		return nil
	}
	delete(s.tokens, token)
	if index, ok := s.accountIndex[session.AccountID]; ok {
		delete(index, token)
		if len(index) == 0 {
			delete(s.accountIndex, session.AccountID)
		}
	}
	return nil
}

func (s *SessionStore) DeleteByAccount(ctx context.Context, accountID domainaccount.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.accountIndex[accountID]
	if !ok {
		return nil
	}
	for token := range index {
		delete(s.tokens, token)
	}
	delete(s.accountIndex, accountID)
	return nil
}

func cloneSession(s *domainauth.Session) *domainauth.Session {
	if s == nil {
		return nil
	}
	copySession := *s
	copySession.Roles = append([]domainaccount.Role(nil), s.Roles...)
	return &copySession
}

var (
	_ domainaccount.Repository = (*AccountRepository)(nil)
	_ domainauth.SessionStore  = (*SessionStore)(nil)
)
