package service

import (
	"github.com/itchan-dev/chanfeed/shared/domain"
	"github.com/itchan-dev/chanfeed/shared/errors"
)

// ReadLedgerService owns the set of read-receipt facts.
type ReadLedgerService interface {
	RecordRead(readerId domain.UserId, messageId domain.MsgId) (created bool, err error)
	RecordReadsBulk(readerId domain.UserId, messageIds []domain.MsgId) (createdCount int, err error)
	HasRead(readerId domain.UserId, messageId domain.MsgId) (bool, error)
	ReadersOf(messageId domain.MsgId) (int, error)
	ReadCountsFor(messageIds []domain.MsgId) (map[domain.MsgId]int, error)
	ReadMessageIds(readerId domain.UserId, messageIds []domain.MsgId) (map[domain.MsgId]bool, error)
	UnreadMessageIds(readerId domain.UserId, senderId domain.UserId) ([]domain.MsgId, error)
}

type ReadLedger struct {
	storage  ReadReceiptStorage
	messages ReceiptMessageStorage
}

type ReadReceiptStorage interface {
	InsertReceipt(readerId domain.UserId, messageId domain.MsgId) (bool, error)
	InsertReceiptsBulk(readerId domain.UserId, messageIds []domain.MsgId) (int, error)
	HasRead(readerId domain.UserId, messageId domain.MsgId) (bool, error)
	ReadersOf(messageId domain.MsgId) (int, error)
	ReadCounts(messageIds []domain.MsgId) (map[domain.MsgId]int, error)
	ReadMessageIds(readerId domain.UserId, messageIds []domain.MsgId) (map[domain.MsgId]bool, error)
	UnreadMessageIds(readerId domain.UserId, senderId domain.UserId) ([]domain.MsgId, error)
}

// ReceiptMessageStorage is the slice of message storage the ledger
// needs for its self-read policy check.
type ReceiptMessageStorage interface {
	GetMessage(id domain.MsgId) (domain.Message, error)
}

func NewReadLedger(storage ReadReceiptStorage, messages ReceiptMessageStorage) *ReadLedger {
	return &ReadLedger{storage, messages}
}

// RecordRead inserts a receipt if absent. Duplicates collapse
// silently; the return value reports whether a new fact was created.
// Recording a read for the reader's own message is rejected.
func (l *ReadLedger) RecordRead(readerId domain.UserId, messageId domain.MsgId) (bool, error) {
	msg, err := l.messages.GetMessage(messageId)
	if err != nil {
		return false, err
	}
	if msg.SenderId == readerId {
		return false, errors.InvalidOperation("Can't mark own message as read")
	}
	// Storage repeats the self-read check as a safety net.
	return l.storage.InsertReceipt(readerId, messageId)
}

func (l *ReadLedger) RecordReadsBulk(readerId domain.UserId, messageIds []domain.MsgId) (int, error) {
	if len(messageIds) == 0 {
		return 0, nil
	}
	return l.storage.InsertReceiptsBulk(readerId, messageIds)
}

func (l *ReadLedger) HasRead(readerId domain.UserId, messageId domain.MsgId) (bool, error) {
	return l.storage.HasRead(readerId, messageId)
}

func (l *ReadLedger) ReadersOf(messageId domain.MsgId) (int, error) {
	return l.storage.ReadersOf(messageId)
}

func (l *ReadLedger) ReadCountsFor(messageIds []domain.MsgId) (map[domain.MsgId]int, error) {
	return l.storage.ReadCounts(messageIds)
}

func (l *ReadLedger) ReadMessageIds(readerId domain.UserId, messageIds []domain.MsgId) (map[domain.MsgId]bool, error) {
	return l.storage.ReadMessageIds(readerId, messageIds)
}

func (l *ReadLedger) UnreadMessageIds(readerId domain.UserId, senderId domain.UserId) ([]domain.MsgId, error) {
	return l.storage.UnreadMessageIds(readerId, senderId)
}
