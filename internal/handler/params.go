package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/chanfeed/shared/domain"
	"github.com/itchan-dev/chanfeed/shared/errors"
	"github.com/itchan-dev/chanfeed/shared/middleware"
)

func userIdParam(r *http.Request) (domain.UserId, error) {
	raw := chi.URLParam(r, "userId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{Message: fmt.Sprintf("Invalid user id %q", raw), StatusCode: http.StatusBadRequest}
	}
	return domain.UserId(id), nil
}

func messageIdParam(r *http.Request) (domain.MsgId, error) {
	raw := chi.URLParam(r, "messageId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{Message: fmt.Sprintf("Invalid message id %q", raw), StatusCode: http.StatusBadRequest}
	}
	return domain.MsgId(id), nil
}

// pageParams reads ?page= and ?limit=, falling back to 1 and the
// configured page size. Out of range values are clamped downstream.
func (h *Handler) pageParams(r *http.Request) (page, limit int, err error) {
	page, limit = 1, h.cfg.Public.MessagesPerPage
	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errors.Validation(fmt.Sprintf("Invalid page %q", raw))
		}
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errors.Validation(fmt.Sprintf("Invalid limit %q", raw))
		}
	}
	return page, limit, nil
}

// requestUser returns the authenticated user injected by the auth
// middleware. Routes using these handlers must be wrapped in NeedAuth.
func requestUser(r *http.Request) (*domain.User, error) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		return nil, errors.Unauthenticated("Not authorized")
	}
	return user, nil
}
