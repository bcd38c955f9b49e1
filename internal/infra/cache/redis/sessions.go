package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainaccount "innstay/internal/domain/account"
	domainauth "innstay/internal/domain/auth"
)

// SessionStore keeps bearer sessions in redis so multiple API instances share
// them. Keys expire with the session; the per-account set enables bulk
// revocation.
type SessionStore struct {
	client *redis.Client
	prefix string
}

func NewSessionStore(client *redis.Client, prefix string) *SessionStore {
	if prefix == "" {
		prefix = "innstay"
	}
	return &SessionStore{client: client, prefix: prefix}
}

type sessionDoc struct {
	Token     string    `json:"token"`
	AccountID string    `json:"account_id"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil {
		return domainauth.ErrTokenRequired
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domainauth.ErrTTLInvalid
	}
	doc := sessionDoc{
		Token:     string(session.Token),
		AccountID: string(session.AccountID),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	for _, role := range session.Roles {
		doc.Roles = append(doc.Roles, string(role))
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("redis: encode session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(session.Token), payload, ttl)
	pipe.SAdd(ctx, s.accountKey(session.AccountID), string(session.Token))
	pipe.ExpireGT(ctx, s.accountKey(session.AccountID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	raw, err := s.client.Get(ctx, s.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis: get session: %w", err)
	}
	var doc sessionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("redis: decode session: %w", err)
	}
	session := &domainauth.Session{
		Token:     domainauth.Token(doc.Token),
		AccountID: domainaccount.ID(doc.AccountID),
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}
	for _, role := range doc.Roles {
		session.Roles = append(session.Roles, domainaccount.Role(role))
	}
	if session.Expired(time.Now()) {
		_ = s.Delete(ctx, token)
		return nil, domainauth.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	raw, err := s.client.Get(ctx, s.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis: get session: %w", err)
	}
	var doc sessionDoc
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.tokenKey(token))
	if err := json.Unmarshal(raw, &doc); err == nil && doc.AccountID != "" {
		pipe.SRem(ctx, s.accountKey(domainaccount.ID(doc.AccountID)), string(token))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteByAccount(ctx context.Context, accountID domainaccount.ID) error {
	tokens, err := s.client.SMembers(ctx, s.accountKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis: list account sessions: %w", err)
	}
	pipe := s.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, s.tokenKey(domainauth.Token(token)))
	}
	pipe.Del(ctx, s.accountKey(accountID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: revoke account sessions: %w", err)
	}
	return nil
}

func (s *SessionStore) tokenKey(token domainauth.Token) string {
	return s.prefix + ":session:" + string(token)
}

func (s *SessionStore) accountKey(accountID domainaccount.ID) string {
	return s.prefix + ":account-sessions:" + string(accountID)
}

var _ domainauth.SessionStore = (*SessionStore)(nil)
