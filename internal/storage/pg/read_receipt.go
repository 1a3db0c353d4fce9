package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/itchan-dev/chanfeed/shared/domain"
	internal_errors "github.com/itchan-dev/chanfeed/shared/errors"
)

// InsertReceipt records that readerId has read messageId. The unique
// (reader_id, message_id) constraint absorbs duplicates: re-recording
// is a silent no-op and the return value reports whether a new fact
// was created. A reader's own message is rejected here as well, not
// only at the service boundary.
func (s *Storage) InsertReceipt(readerId domain.UserId, messageId domain.MsgId) (bool, error) {
	var senderId domain.UserId
	err := s.db.QueryRow(`SELECT sender_id FROM messages WHERE id = $1`, messageId).Scan(&senderId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, &internal_errors.ErrorWithStatusCode{Message: "Message not found", StatusCode: 404}
		}
		return false, fmt.Errorf("failed to fetch message %d: %w", messageId, err)
	}
	if senderId == readerId {
		return false, &internal_errors.ErrorWithStatusCode{Message: "Can't mark own message as read", StatusCode: 409}
	}

	result, err := s.db.Exec(`
	INSERT INTO read_receipts(reader_id, message_id) VALUES($1, $2)
	ON CONFLICT (reader_id, message_id) DO NOTHING`, readerId, messageId)
	if err != nil {
		return false, fmt.Errorf("failed to insert read receipt: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// InsertReceiptsBulk records the missing receipts for readerId among
// messageIds in a single statement. Messages authored by the reader
// are skipped, existing receipts are untouched. Returns the number of
// receipts actually created; the statement either commits them all or
// fails with no partial state.
func (s *Storage) InsertReceiptsBulk(readerId domain.UserId, messageIds []domain.MsgId) (int, error) {
	if len(messageIds) == 0 {
		return 0, nil
	}

	result, err := s.db.Exec(`
	INSERT INTO read_receipts(reader_id, message_id)
	SELECT $1, m.id
	FROM messages m
	WHERE m.id = ANY($2) AND m.sender_id <> $1
	ON CONFLICT (reader_id, message_id) DO NOTHING`, readerId, pq.Array(messageIds))
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert read receipts: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (s *Storage) HasRead(readerId domain.UserId, messageId domain.MsgId) (bool, error) {
	var read bool
	err := s.db.QueryRow(`
	SELECT EXISTS(SELECT 1 FROM read_receipts WHERE reader_id = $1 AND message_id = $2)`,
		readerId, messageId).Scan(&read)
	if err != nil {
		return false, fmt.Errorf("failed to check read receipt: %w", err)
	}
	return read, nil
}

// ReadersOf returns how many distinct readers have a receipt for the message.
func (s *Storage) ReadersOf(messageId domain.MsgId) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM read_receipts WHERE message_id = $1`, messageId).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count readers of message %d: %w", messageId, err)
	}
	return count, nil
}

// ReadCounts returns per-message reader counts in one query.
// Messages without receipts are absent from the map.
func (s *Storage) ReadCounts(messageIds []domain.MsgId) (map[domain.MsgId]int, error) {
	counts := make(map[domain.MsgId]int)
	if len(messageIds) == 0 {
		return counts, nil
	}

	rows, err := s.db.Query(`
	SELECT message_id, COUNT(*)
	FROM read_receipts
	WHERE message_id = ANY($1)
	GROUP BY message_id`, pq.Array(messageIds))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch read counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id domain.MsgId
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan read count row: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

// ReadMessageIds filters messageIds down to the ones readerId has read.
func (s *Storage) ReadMessageIds(readerId domain.UserId, messageIds []domain.MsgId) (map[domain.MsgId]bool, error) {
	read := make(map[domain.MsgId]bool)
	if len(messageIds) == 0 {
		return read, nil
	}

	rows, err := s.db.Query(`
	SELECT message_id FROM read_receipts
	WHERE reader_id = $1 AND message_id = ANY($2)`, readerId, pq.Array(messageIds))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch read message ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id domain.MsgId
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan read message id: %w", err)
		}
		read[id] = true
	}
	return read, rows.Err()
}

// UnreadMessageIds returns every message authored by senderId that
// readerId has no receipt for: the set difference behind unread counts.
func (s *Storage) UnreadMessageIds(readerId domain.UserId, senderId domain.UserId) ([]domain.MsgId, error) {
	rows, err := s.db.Query(`
	SELECT m.id
	FROM messages m
	LEFT JOIN read_receipts r ON r.message_id = m.id AND r.reader_id = $1
	WHERE m.sender_id = $2 AND r.id IS NULL
	ORDER BY m.id`, readerId, senderId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unread message ids: %w", err)
	}
	defer rows.Close()

	var ids []domain.MsgId
	for rows.Next() {
		var id domain.MsgId
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan unread message id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UnreadCountsBySenders computes the per-sender unread counts for one
// reader in a single query. Senders with nothing unread are absent
// from the map. The count is a genuine set-difference cardinality,
// scoped to each sender.
func (s *Storage) UnreadCountsBySenders(readerId domain.UserId, senderIds []domain.UserId) (map[domain.UserId]int, error) {
	counts := make(map[domain.UserId]int)
	if len(senderIds) == 0 {
		return counts, nil
	}

	rows, err := s.db.Query(`
	SELECT m.sender_id, COUNT(*)
	FROM messages m
	LEFT JOIN read_receipts r ON r.message_id = m.id AND r.reader_id = $1
	WHERE m.sender_id = ANY($2) AND m.sender_id <> $1 AND r.id IS NULL
	GROUP BY m.sender_id`, readerId, pq.Array(senderIds))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unread counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var senderId domain.UserId
		var count int
		if err := rows.Scan(&senderId, &count); err != nil {
			return nil, fmt.Errorf("failed to scan unread count row: %w", err)
		}
		counts[senderId] = count
	}
	return counts, rows.Err()
}
