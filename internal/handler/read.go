package handler

import (
	"net/http"

	"github.com/itchan-dev/chanfeed/shared/api"
	"github.com/itchan-dev/chanfeed/shared/utils"
)

// MarkMessageRead records a read receipt for one message. A repeat
// call succeeds without creating a second receipt.
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
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

	created, err := h.reads.RecordRead(user.Id, messageId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if created {
		writeMessage(w, http.StatusCreated, "Message marked as read")
		return
	}
	writeMessage(w, http.StatusOK, "Message already marked as read")
}

// MarkAllRead records receipts for every unread message from one
// sender and reports how many were created.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
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

	markedCount, err := h.unread.MarkAllRead(user.Id, senderId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeData(w, http.StatusOK, api.MarkAllReadResponse{MarkedCount: markedCount})
}
