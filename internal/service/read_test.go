package service

import (
	"errors"
	"testing"

	"github.com/itchan-dev/chanfeed/shared/domain"
	internal_errors "github.com/itchan-dev/chanfeed/shared/errors"
)

type MockReceiptStorage struct {
	InsertReceiptFunc      func(readerId domain.UserId, messageId domain.MsgId) (bool, error)
	InsertReceiptsBulkFunc func(readerId domain.UserId, messageIds []domain.MsgId) (int, error)
	HasReadFunc            func(readerId domain.UserId, messageId domain.MsgId) (bool, error)
	ReadersOfFunc          func(messageId domain.MsgId) (int, error)
	ReadCountsFunc         func(messageIds []domain.MsgId) (map[domain.MsgId]int, error)
	ReadMessageIdsFunc     func(readerId domain.UserId, messageIds []domain.MsgId) (map[domain.MsgId]bool, error)
	UnreadMessageIdsFunc   func(readerId domain.UserId, senderId domain.UserId) ([]domain.MsgId, error)
}

func (m *MockReceiptStorage) InsertReceipt(readerId domain.UserId, messageId domain.MsgId) (bool, error) {
	if m.InsertReceiptFunc != nil {
		return m.InsertReceiptFunc(readerId, messageId)
	}
	return true, nil
}

func (m *MockReceiptStorage) InsertReceiptsBulk(readerId domain.UserId, messageIds []domain.MsgId) (int, error) {
	if m.InsertReceiptsBulkFunc != nil {
		return m.InsertReceiptsBulkFunc(readerId, messageIds)
	}
	return len(messageIds), nil
}

func (m *MockReceiptStorage) HasRead(readerId domain.UserId, messageId domain.MsgId) (bool, error) {
	if m.HasReadFunc != nil {
		return m.HasReadFunc(readerId, messageId)
	}
	return false, nil
}

func (m *MockReceiptStorage) ReadersOf(messageId domain.MsgId) (int, error) {
	if m.ReadersOfFunc != nil {
		return m.ReadersOfFunc(messageId)
	}
	return 0, nil
}

func (m *MockReceiptStorage) ReadCounts(messageIds []domain.MsgId) (map[domain.MsgId]int, error) {
	if m.ReadCountsFunc != nil {
		return m.ReadCountsFunc(messageIds)
	}
	return map[domain.MsgId]int{}, nil
}

func (m *MockReceiptStorage) ReadMessageIds(readerId domain.UserId, messageIds []domain.MsgId) (map[domain.MsgId]bool, error) {
	if m.ReadMessageIdsFunc != nil {
		return m.ReadMessageIdsFunc(readerId, messageIds)
	}
	return map[domain.MsgId]bool{}, nil
}

func (m *MockReceiptStorage) UnreadMessageIds(readerId domain.UserId, senderId domain.UserId) ([]domain.MsgId, error) {
	if m.UnreadMessageIdsFunc != nil {
		return m.UnreadMessageIdsFunc(readerId, senderId)
	}
	return nil, nil
}

type MockMessageGetter struct {
	GetMessageFunc func(id domain.MsgId) (domain.Message, error)
}

func (m *MockMessageGetter) GetMessage(id domain.MsgId) (domain.Message, error) {
	if m.GetMessageFunc != nil {
		return m.GetMessageFunc(id)
	}
	return domain.Message{Id: id, SenderId: 99}, nil
}

func TestRecordRead(t *testing.T) {
	storage := &MockReceiptStorage{}
	ledger := NewReadLedger(storage, &MockMessageGetter{})

	created, err := ledger.RecordRead(1, 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !created {
		t.Error("Expected a new receipt")
	}

	// Duplicate collapses silently.
	storage.InsertReceiptFunc = func(readerId domain.UserId, messageId domain.MsgId) (bool, error) {
		return false, nil
	}
	created, err = ledger.RecordRead(1, 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if created {
		t.Error("Expected duplicate to create nothing")
	}
}

func TestRecordReadOwnMessage(t *testing.T) {
	messages := &MockMessageGetter{
		GetMessageFunc: func(id domain.MsgId) (domain.Message, error) {
			return domain.Message{Id: id, SenderId: 1}, nil
		},
	}
	ledger := NewReadLedger(&MockReceiptStorage{}, messages)

	_, err := ledger.RecordRead(1, 10)
	e, ok := err.(*internal_errors.ErrorWithStatusCode)
	if !ok || e.StatusCode != 409 {
		t.Errorf("Expected 409, got %v", err)
	}
}

func TestRecordReadMissingMessage(t *testing.T) {
	notFound := &internal_errors.ErrorWithStatusCode{Message: "Message not found", StatusCode: 404}
	messages := &MockMessageGetter{
		GetMessageFunc: func(id domain.MsgId) (domain.Message, error) {
			return domain.Message{}, notFound
		},
	}
	ledger := NewReadLedger(&MockReceiptStorage{}, messages)

	_, err := ledger.RecordRead(1, 10)
	if !errors.Is(err, notFound) {
		t.Errorf("Expected %v, got %v", notFound, err)
	}
}

func TestRecordReadsBulkEmpty(t *testing.T) {
	storage := &MockReceiptStorage{
		InsertReceiptsBulkFunc: func(readerId domain.UserId, messageIds []domain.MsgId) (int, error) {
			t.Error("Storage hit for an empty batch")
			return 0, nil
		},
	}
	ledger := NewReadLedger(storage, &MockMessageGetter{})

	count, err := ledger.RecordReadsBulk(1, nil)
	if err != nil || count != 0 {
		t.Errorf("Expected 0, nil for empty batch, got %d, %v", count, err)
	}
}

func TestRecordReadsBulkReportsCreated(t *testing.T) {
	storage := &MockReceiptStorage{
		InsertReceiptsBulkFunc: func(readerId domain.UserId, messageIds []domain.MsgId) (int, error) {
			// Two of three already had receipts.
			return 1, nil
		},
	}
	ledger := NewReadLedger(storage, &MockMessageGetter{})

	count, err := ledger.RecordReadsBulk(1, []domain.MsgId{1, 2, 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 created, got %d", count)
	}
}
