package dto

import (
	"time"

	domainaccount "innstay/internal/domain/account"
)

type AccountProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthResponse struct {
	Account AccountProfile `json:"account"`
	Token   string         `json:"token"`
}

func MapAccountProfile(acc *domainaccount.Account) AccountProfile {
	if acc == nil {
		return AccountProfile{}
	}
	roles := make([]string, 0, len(acc.Roles))
	for _, role := range acc.Roles {
		roles = append(roles, string(role))
	}
	return AccountProfile{
		ID:        string(acc.ID),
		Email:     acc.Email,
		Name:      acc.Name,
		Phone:     acc.Phone,
		Roles:     roles,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}
}

func NewAuthResponse(acc *domainaccount.Account, token string) AuthResponse {
	return AuthResponse{
		Account: MapAccountProfile(acc),
		Token:   token,
	}
}
