package service

import (
	"github.com/itchan-dev/chanfeed/shared/domain"
)

// PresenceService is the online/lastSeen bookkeeping around the feed.
// Its ordering feeds the roster.
type PresenceService interface {
	SetOnlineStatus(userId domain.UserId, isOnline bool) error
	OrderedOtherUsers(viewerId domain.UserId) ([]domain.User, error)
}

type Presence struct {
	storage PresenceStorage
}

type PresenceStorage interface {
	SetOnlineStatus(userId domain.UserId, isOnline bool) error
	OtherUsersOrdered(viewerId domain.UserId) ([]domain.User, error)
}

func NewPresence(storage PresenceStorage) *Presence {
	return &Presence{storage}
}

func (p *Presence) SetOnlineStatus(userId domain.UserId, isOnline bool) error {
	return p.storage.SetOnlineStatus(userId, isOnline)
}

// OrderedOtherUsers returns everyone but the viewer: online users
// first, then by recency of last_seen, then by username.
func (p *Presence) OrderedOtherUsers(viewerId domain.UserId) ([]domain.User, error) {
	return p.storage.OtherUsersOrdered(viewerId)
}
