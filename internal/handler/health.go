package handler

import (
	"net/http"

	"github.com/itchan-dev/chanfeed/shared/middleware"
	"github.com/itchan-dev/chanfeed/shared/utils"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

// Ready fails when the storage backend is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		middleware.RequestLogger(r).Error("storage unreachable", "err", err)
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "ready")
}
