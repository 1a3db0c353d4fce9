package handler

import (
	"net/http"

	"github.com/itchan-dev/chanfeed/shared/api"
	"github.com/itchan-dev/chanfeed/shared/utils"
)

// GetUsers lists every other user, online first, then by recency.
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	users, err := h.presence.OrderedOtherUsers(user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeData(w, http.StatusOK, users)
}

func (h *Handler) UpdateOnlineStatus(w http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var req api.OnlineStatusRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.presence.SetOnlineStatus(user.Id, *req.IsOnline); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Online status updated")
}

// GetUserLatestMessages is the roster view: every other user annotated
// with their latest message, unread count and total.
func (h *Handler) GetUserLatestMessages(w http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	users, err := h.presence.OrderedOtherUsers(user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	entries, err := h.unread.RosterUnreadSummary(user.Id, users)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeData(w, http.StatusOK, entries)
}
