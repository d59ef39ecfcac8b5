package sessionsrepobridge

import (
	"time"

	"github.com/jrazmi/sessions/core/repositories/sessionsrepo"
	"github.com/jrazmi/sessions/sdk/validation"
)

func MarshalToBridge(s sessionsrepo.Session) Session {
	return Session{
		ID:        s.ID.String(),
		UserID:    s.UserID.String(),
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: validation.FormatTimePtr(s.UpdatedAt),
	}
}

// MarshalListToBridge converts a list of core models to bridge models
func MarshalListToBridge(sessions []sessionsrepo.Session) []Session {
	out := make([]Session, len(sessions))
	for i, s := range sessions {
		out[i] = MarshalToBridge(s)
	}
	return out
}
