package handler

import (
	"net/http"

	"github.com/itchan-dev/chanfeed/shared/api"
	"github.com/itchan-dev/chanfeed/shared/utils"
)

// LikeMessage sets or clears the caller's like on a message and
// returns the resulting like count. Repeating the same state is a
// no-op, not an error.
func (h *Handler) LikeMessage(w http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	messageId, err := messageIdParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var req api.LikeRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	likeCount, err := h.likes.SetLike(messageId, user.Id, *req.Like)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeData(w, http.StatusOK, api.LikeResponse{LikeCount: likeCount})
}
