package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrIncompleteSession is returned when a stored session has a token
// without a user or the other way round.
var ErrIncompleteSession = errors.New("incomplete session record")

// PersistedSession is the durable {user, token} record.
type PersistedSession struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Valid reports whether both halves of the session are present.
func (s PersistedSession) Valid() bool {
	return s.User != nil && s.Token != ""
}

// DecodeSession parses a stored record and rejects incomplete ones.
func DecodeSession(data []byte) (PersistedSession, error) {
	var s PersistedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return PersistedSession{}, fmt.Errorf("decode session: %w", err)
	}
	if !s.Valid() {
		return PersistedSession{}, ErrIncompleteSession
	}
	return s, nil
}

func EncodeSession(s PersistedSession) ([]byte, error) {
	if !s.Valid() {
		return nil, ErrIncompleteSession
	}
	return json.Marshal(s)
}
