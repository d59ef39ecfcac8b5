package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/jrazmi/sessions/bridge/repositories/sessionsrepobridge"
	"github.com/jrazmi/sessions/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo"
	"github.com/jrazmi/sessions/core/scaffolding/fop"
	"github.com/jrazmi/sessions/sdk/validation"
)

// Issue starts a session for a user: issue <user_id>.
func Issue(ctx context.Context, w io.Writer, repo *sessionsrepo.Repository, args []string) error {
	fs := newFlagSet("issue", w)
	if err := parse(fs, args); err != nil {
		return err
	}
	userID, err := uuidArg(fs, "user_id")
	if err != nil {
		return err
	}

	s, err := repo.Issue(ctx, userID)
	if err != nil {
		return fmt.Errorf("issue: %w", err)
	}
	return writeJSON(w, sessionsrepobridge.MarshalToBridge(s))
}

// Show prints one session: show <id>.
func Show(ctx context.Context, w io.Writer, repo *sessionsrepo.Repository, args []string) error {
	fs := newFlagSet("show", w)
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := uuidArg(fs, "id")
	if err != nil {
		return err
	}

	s, err := repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return writeJSON(w, sessionsrepobridge.MarshalToBridge(s))
}

// Touch records activity on a session: touch <id>.
func Touch(ctx context.Context, w io.Writer, repo *sessionsrepo.Repository, args []string) error {
	fs := newFlagSet("touch", w)
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := uuidArg(fs, "id")
	if err != nil {
		return err
	}

	s, err := repo.Touch(ctx, id)
	if err != nil {
		return fmt.Errorf("touch: %w", err)
	}
	return writeJSON(w, sessionsrepobridge.MarshalToBridge(s))
}

// List prints one page of sessions.
func List(ctx context.Context, w io.Writer, repo *sessionsrepo.Repository, args []string) error {
	fs := newFlagSet("list", w)
	user := fs.String("user", "", "only sessions of this user id")
	after := fs.String("created-after", "", "only sessions created at or after this time")
	before := fs.String("created-before", "", "only sessions created before this time")
	order := fs.String("order", "", "created_at|last_active[,asc|desc]")
	limit := fs.Int("limit", fop.DefaultLimit, "page size")
	cursor := fs.String("cursor", "", "cursor returned by the previous page")
	if err := parse(fs, args); err != nil {
		return err
	}

	var filter sessionsrepo.SessionFilter
	if *user != "" {
		id, err := uuid.Parse(*user)
		if err != nil {
			return fmt.Errorf("invalid -user: %w", err)
		}
		filter.UserID = &id
	}
	if *after != "" {
		t, err := validation.ParseFlexibleTime(*after)
		if err != nil {
			return fmt.Errorf("invalid -created-after: %w", err)
		}
		filter.CreatedAfter = &t
	}
	if *before != "" {
		t, err := validation.ParseFlexibleTime(*before)
		if err != nil {
			return fmt.Errorf("invalid -created-before: %w", err)
		}
		filter.CreatedBefore = &t
	}

	orderBy, err := fop.ParseOrder(sessionsrepo.OrderFields, *order, sessionsrepo.DefaultOrderBy)
	if err != nil {
		return err
	}

	page, err := fop.ParsePageStringCursor(strconv.Itoa(*limit), *cursor)
	if err != nil {
		return fmt.Errorf("invalid -limit: %w", err)
	}

	sessions, info, err := repo.List(ctx, filter, orderBy, page)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return writeJSON(w, fopbridge.NewPaginatedResponse(sessionsrepobridge.MarshalListToBridge(sessions), info))
}

// Revoke ends a session: revoke <id>.
func Revoke(ctx context.Context, w io.Writer, repo *sessionsrepo.Repository, args []string) error {
	fs := newFlagSet("revoke", w)
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := uuidArg(fs, "id")
	if err != nil {
		return err
	}

	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	return writeJSON(w, fopbridge.RecordID{ID: id.String()})
}

// RevokeUser ends every session of a user: revoke-user <user_id>.
func RevokeUser(ctx context.Context, w io.Writer, repo *sessionsrepo.Repository, args []string) error {
	fs := newFlagSet("revoke-user", w)
	if err := parse(fs, args); err != nil {
		return err
	}
	userID, err := uuidArg(fs, "user_id")
	if err != nil {
		return err
	}

	n, err := repo.DeleteByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("revoke-user: %w", err)
	}
	return writeJSON(w, fopbridge.CountResponse{Count: n})
}
