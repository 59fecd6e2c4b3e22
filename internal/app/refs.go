package app

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PlayerRef is a player reference as submitted over HTTP: a nick string, a
// numeric id, or empty/null marking the absent-teammate slot of a singles
// match.
type PlayerRef struct {
	Nick string
	ID   int64
}

// Empty reports whether the reference names nobody.
func (r PlayerRef) Empty() bool { return r.Nick == "" && r.ID == 0 }

// UnmarshalJSON accepts a JSON string (nick), number (id), or null.
func (r *PlayerRef) UnmarshalJSON(b []byte) error {
	*r = PlayerRef{}
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(b, &r.Nick)
	}
	if err := json.Unmarshal(b, &r.ID); err != nil {
		return fmt.Errorf("player reference must be a nick or an id: %w", err)
	}
	return nil
}

// NickRef builds a reference from a nick; an empty nick is the empty ref.
func NickRef(nick string) PlayerRef { return PlayerRef{Nick: nick} }

// IDRef builds a reference from a player id.
func IDRef(id int64) PlayerRef { return PlayerRef{ID: id} }
