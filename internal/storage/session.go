// Package storage provides persistence implementations for the sync service.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/peteski22/offersync/internal/sync"
)

// Session is a saved login: the bearer token plus the identity it belongs to.
type Session struct {
	// AccountID is sent in the account-id header.
	AccountID string `json:"accountId"`

	// DisplayKey is a human-friendly identifier used for snapshot keys.
	DisplayKey string `json:"displayKey,omitempty"`

	// ExpiresAt is when the token stops being accepted. Zero means unknown.
	ExpiresAt time.Time `json:"expiresAt,omitzero"`

	// LoyaltyID is the casino loyalty programme identifier.
	LoyaltyID string `json:"loyaltyId"`

	// Token is the bearer token.
	Token string `json:"token"`
}

// Identity returns the account identity of the session.
func (s Session) Identity() sync.Identity {
	return sync.Identity{
		AccountID:  s.AccountID,
		DisplayKey: s.DisplayKey,
		LoyaltyID:  s.LoyaltyID,
	}
}

// validate checks the fields needed to call the offers API.
func (s Session) validate() error {
	if strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("token is required")
	}
	if strings.TrimSpace(s.AccountID) == "" {
		return fmt.Errorf("account ID is required")
	}
	return nil
}

// decodeSession parses a stored session. Empty input yields an empty session.
func decodeSession(data []byte) (Session, error) {
	var s Session
	if strings.TrimSpace(string(data)) == "" {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decoding session: %w", err)
	}
	return s, nil
}
