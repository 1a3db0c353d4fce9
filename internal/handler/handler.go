package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/itchan-dev/chanfeed/internal/service"
	"github.com/itchan-dev/chanfeed/shared/api"
	"github.com/itchan-dev/chanfeed/shared/config"
	"github.com/itchan-dev/chanfeed/shared/logger"
)

// Pinger reports storage liveness for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth     service.AuthService
	feed     service.FeedService
	likes    service.LikeLedgerService
	reads    service.ReadLedgerService
	unread   service.UnreadAccountantService
	presence service.PresenceService
	cfg      *config.Config
	health   Pinger
}

func New(
	auth service.AuthService,
	feed service.FeedService,
	likes service.LikeLedgerService,
	reads service.ReadLedgerService,
	unread service.UnreadAccountantService,
	presence service.PresenceService,
	cfg *config.Config,
	health Pinger,
) *Handler {
	return &Handler{auth, feed, likes, reads, unread, presence, cfg, health}
}

func writeJSON(w http.ResponseWriter, status int, resp api.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.Error("failed to encode response", "err", err)
	}
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, api.Response{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.Response{Success: true, Message: message})
}
