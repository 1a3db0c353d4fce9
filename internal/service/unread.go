package service

import (
	"github.com/itchan-dev/chanfeed/shared/domain"
)

// UnreadAccountantService derives unread counts per (reader, sender)
// pair from the read-receipt ledger and the message stream.
type UnreadAccountantService interface {
	UnreadCount(readerId, senderId domain.UserId) (int, error)
	MarkAllRead(readerId, senderId domain.UserId) (markedCount int, err error)
	RosterUnreadSummary(readerId domain.UserId, senders []domain.User) ([]domain.RosterEntry, error)
}

type UnreadAccountant struct {
	reads   ReadLedgerService
	likes   LikeLedgerService
	storage RosterMessageStorage
}

type RosterMessageStorage interface {
	LatestMessagesBySenders(senderIds []domain.UserId) (map[domain.UserId]domain.Message, error)
	MessageCountsBySenders(senderIds []domain.UserId) (map[domain.UserId]int, error)
	UnreadCountsBySenders(readerId domain.UserId, senderIds []domain.UserId) (map[domain.UserId]int, error)
}

func NewUnreadAccountant(reads ReadLedgerService, likes LikeLedgerService, storage RosterMessageStorage) *UnreadAccountant {
	return &UnreadAccountant{reads, likes, storage}
}

// UnreadCount is the cardinality of the set difference between
// "messages by sender" and "messages by sender read by reader". It is
// recomputed from scratch every time: receipts may appear out of band
// (bulk mark-all-read racing with new posts), so nothing is assumed
// monotonic.
func (a *UnreadAccountant) UnreadCount(readerId, senderId domain.UserId) (int, error) {
	if readerId == senderId {
		// self-unread is meaningless
		return 0, nil
	}
	ids, err := a.reads.UnreadMessageIds(readerId, senderId)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// MarkAllRead records receipts for everything by senderId the reader
// hasn't read yet. Idempotent: a repeat call marks nothing and
// reports 0.
func (a *UnreadAccountant) MarkAllRead(readerId, senderId domain.UserId) (int, error) {
	if readerId == senderId {
		return 0, nil
	}
	ids, err := a.reads.UnreadMessageIds(readerId, senderId)
	if err != nil {
		return 0, err
	}
	return a.reads.RecordReadsBulk(readerId, ids)
}

// RosterUnreadSummary annotates the given senders, already ordered by
// the presence layer, with their latest message and the reader's
// unread accounting. Everything is fetched in batched queries; the
// result matches the naive per-sender definition exactly. Senders with
// no messages get a nil latest message and zero counts.
func (a *UnreadAccountant) RosterUnreadSummary(readerId domain.UserId, senders []domain.User) ([]domain.RosterEntry, error) {
	senderIds := make([]domain.UserId, 0, len(senders))
	for _, sender := range senders {
		senderIds = append(senderIds, sender.Id)
	}

	latest, err := a.storage.LatestMessagesBySenders(senderIds)
	if err != nil {
		return nil, err
	}
	totals, err := a.storage.MessageCountsBySenders(senderIds)
	if err != nil {
		return nil, err
	}
	unread, err := a.storage.UnreadCountsBySenders(readerId, senderIds)
	if err != nil {
		return nil, err
	}

	latestIds := make([]domain.MsgId, 0, len(latest))
	for _, msg := range latest {
		latestIds = append(latestIds, msg.Id)
	}
	read, err := a.reads.ReadMessageIds(readerId, latestIds)
	if err != nil {
		return nil, err
	}
	liked, err := a.likes.LikedMessageIds(readerId, latestIds)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.RosterEntry, 0, len(senders))
	for _, sender := range senders {
		entry := domain.RosterEntry{User: sender}
		if msg, ok := latest[sender.Id]; ok {
			entry.LatestMessage = &domain.MessageView{
				Message: msg,
				IsLiked: liked[msg.Id],
				IsRead:  read[msg.Id],
			}
			entry.TotalMessages = totals[sender.Id]
			entry.UnreadCount = unread[sender.Id]
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
