package handler

import (
	"net/http"

	"github.com/itchan-dev/chanfeed/internal/service"
	"github.com/itchan-dev/chanfeed/shared/api"
	"github.com/itchan-dev/chanfeed/shared/domain"
	"github.com/itchan-dev/chanfeed/shared/utils"
)

func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var req api.CreateMessageRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var mediaType *domain.MediaKind
	if req.MediaType != nil {
		kind := domain.MediaKind(*req.MediaType)
		mediaType = &kind
	}

	msg, err := h.feed.Post(user.Id, req.Message, req.MediaUrl, mediaType)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeData(w, http.StatusCreated, msg)
}

// GetMessages serves the shared channel stream, newest first.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	page, limit, err := h.pageParams(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	feedPage, err := h.feed.GlobalPage(user.Id, page, limit)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeData(w, http.StatusOK, feedResponse(feedPage))
}

// GetMyMessages serves the caller's own messages with read counts.
func (h *Handler) GetMyMessages(w http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	page, limit, err := h.pageParams(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	feedPage, err := h.feed.OwnPage(user.Id, page, limit)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeData(w, http.StatusOK, feedResponse(feedPage))
}

// GetUserMessages serves one sender's slice of the channel.
func (h *Handler) GetUserMessages(w http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	senderId, err := userIdParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	page, limit, err := h.pageParams(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	feedPage, err := h.feed.SenderPage(user.Id, senderId, page, limit)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeData(w, http.StatusOK, feedResponse(feedPage))
}

func feedResponse(p service.FeedPage) api.FeedResponse {
	return api.FeedResponse{
		Messages: p.Messages,
		Pagination: api.Pagination{
			Page:    p.Page,
			Limit:   p.PageSize,
			Total:   p.Total,
			HasMore: p.HasMore,
		},
	}
}
