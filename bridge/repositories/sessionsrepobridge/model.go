package sessionsrepobridge

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jrazmi/sessions/sdk/validation"
)

// Session is the JSON form of a session. Timestamps are RFC 3339 in UTC;
// updated_at is omitted while absent.
type Session struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// IssueSession is the body of POST /sessions.
type IssueSession struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// Decode implements web.Decoder.
func (i *IssueSession) Decode(data []byte) error {
	return json.Unmarshal(data, i)
}

// Validate checks the request body.
func (i IssueSession) Validate() error {
	return validation.Check(i)
}

func (i IssueSession) userID() (uuid.UUID, error) {
	id, err := uuid.Parse(i.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("user_id: %w", err)
	}
	return id, nil
}
