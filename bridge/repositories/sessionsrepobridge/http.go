package sessionsrepobridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/sessions/bridge/scaffolding/errs"
	"github.com/jrazmi/sessions/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo"
	"github.com/jrazmi/sessions/infrastructure/web"
	"github.com/jrazmi/sessions/sdk/logger"
)

// Config holds configuration for the Session bridge
type Config struct {
	Log        *logger.Logger
	Repository *sessionsrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers all HTTP routes for Session
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)
	mw := cfg.Middleware

	group.GET("/sessions", b.httpList, mw...)
	group.POST("/sessions", b.httpIssue, mw...)
	group.GET("/sessions/{id}", b.httpGetByID, mw...)
	group.PUT("/sessions/{id}/touch", b.httpTouch, mw...)
	group.DELETE("/sessions/{id}", b.httpDelete, mw...)

	group.GET("/users/{user_id}/sessions", b.httpListByUserID, mw...)
	group.DELETE("/users/{user_id}/sessions", b.httpDeleteByUserID, mw...)
}

func (b *bridge) httpIssue(ctx context.Context, r *http.Request) web.Encoder {
	var input IssueSession
	if err := web.Decode(r, &input); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	userID, err := input.userID()
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	s, err := b.sessionsRepository.Issue(ctx, userID)
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponseWithStatus(fopbridge.NewRecordResponse(MarshalToBridge(s)), http.StatusCreated)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	id, err := pathUUID(r, "id")
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	s, err := b.sessionsRepository.Get(ctx, id)
	if err != nil {
		return toAppError(err)
	}

	return fopbridge.NewRecordResponse(MarshalToBridge(s))
}

func (b *bridge) httpTouch(ctx context.Context, r *http.Request) web.Encoder {
	id, err := pathUUID(r, "id")
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	s, err := b.sessionsRepository.Touch(ctx, id)
	if err != nil {
		return toAppError(err)
	}

	return fopbridge.NewRecordResponse(MarshalToBridge(s))
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	id, err := pathUUID(r, "id")
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	if err := b.sessionsRepository.Delete(ctx, id); err != nil {
		return toAppError(err)
	}

	return web.NewNoContent()
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	qp := parseQueryParams(r)

	filter, err := parseFilter(qp)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	orderBy, err := parseOrderBy(qp.Order)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	page, err := parsePage(qp)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	sessions, info, err := b.sessionsRepository.List(ctx, filter, orderBy, page)
	if err != nil {
		return toAppError(err)
	}

	return fopbridge.NewPaginatedResponse(MarshalListToBridge(sessions), info)
}

func (b *bridge) httpListByUserID(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := pathUUID(r, "user_id")
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	page, err := parsePage(parseQueryParams(r))
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	sessions, info, err := b.sessionsRepository.ListByUserID(ctx, userID, page)
	if err != nil {
		return toAppError(err)
	}

	return fopbridge.NewPaginatedResponse(MarshalListToBridge(sessions), info)
}

func (b *bridge) httpDeleteByUserID(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := pathUUID(r, "user_id")
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	n, err := b.sessionsRepository.DeleteByUserID(ctx, userID)
	if err != nil {
		return toAppError(err)
	}

	return fopbridge.CountResponse{Count: n}
}
