package service

import (
	"github.com/itchan-dev/chanfeed/shared/domain"
	"github.com/itchan-dev/chanfeed/shared/errors"
)

// LikeLedgerService owns the per-message liker sets.
type LikeLedgerService interface {
	SetLike(messageId domain.MsgId, userId domain.UserId, like bool) (likeCount int, err error)
	IsLikedBy(messageId domain.MsgId, userId domain.UserId) (bool, error)
	Count(messageId domain.MsgId) (int, error)
	LikedMessageIds(userId domain.UserId, messageIds []domain.MsgId) (map[domain.MsgId]bool, error)
}

type LikeLedger struct {
	storage  LikeStorage
	messages ReceiptMessageStorage
}

type LikeStorage interface {
	SetLike(messageId domain.MsgId, userId domain.UserId, like bool) (changed bool, err error)
	LikeCount(messageId domain.MsgId) (int, error)
	IsLikedBy(messageId domain.MsgId, userId domain.UserId) (bool, error)
	LikedMessageIds(userId domain.UserId, messageIds []domain.MsgId) (map[domain.MsgId]bool, error)
}

func NewLikeLedger(storage LikeStorage, messages ReceiptMessageStorage) *LikeLedger {
	return &LikeLedger{storage, messages}
}

// SetLike toggles userId's membership in the message's liker set and
// returns the resulting like count. Adding an existing member or
// removing an absent one is a no-op, not an error. Liking your own
// message is rejected here at the boundary; the set itself is
// policy-free.
func (l *LikeLedger) SetLike(messageId domain.MsgId, userId domain.UserId, like bool) (int, error) {
	msg, err := l.messages.GetMessage(messageId)
	if err != nil {
		return 0, err
	}
	if like && msg.SenderId == userId {
		return 0, errors.InvalidOperation("Can't like own message")
	}

	if _, err := l.storage.SetLike(messageId, userId, like); err != nil {
		return 0, err
	}
	return l.storage.LikeCount(messageId)
}

func (l *LikeLedger) IsLikedBy(messageId domain.MsgId, userId domain.UserId) (bool, error) {
	return l.storage.IsLikedBy(messageId, userId)
}

func (l *LikeLedger) Count(messageId domain.MsgId) (int, error) {
	return l.storage.LikeCount(messageId)
}

func (l *LikeLedger) LikedMessageIds(userId domain.UserId, messageIds []domain.MsgId) (map[domain.MsgId]bool, error) {
	return l.storage.LikedMessageIds(userId, messageIds)
}
