package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/itchan-dev/chanfeed/shared/domain"
	internal_errors "github.com/itchan-dev/chanfeed/shared/errors"
)

const messageColumns = `
	m.id,
	m.sender_id,
	m.sender_username,
	m.sender_name,
	m.text,
	m.media_url,
	m.media_type,
	(SELECT COUNT(*) FROM message_likes l WHERE l.message_id = m.id) AS like_count,
	m.created_at,
	m.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (domain.Message, error) {
	var msg domain.Message
	var mediaUrl, mediaType sql.NullString
	err := row.Scan(
		&msg.Id, &msg.SenderId, &msg.SenderUsername, &msg.SenderName,
		&msg.Text, &mediaUrl, &mediaType, &msg.LikeCount,
		&msg.CreatedAt, &msg.UpdatedAt,
	)
	if err != nil {
		return domain.Message{}, err
	}
	if mediaUrl.Valid {
		msg.MediaUrl = &mediaUrl.String
	}
	if mediaType.Valid {
		msg.MediaType = &mediaType.String
	}
	return msg, nil
}

// CreateMessage persists a new channel message with the sender display
// fields captured as given. Like set starts empty.
func (s *Storage) CreateMessage(data domain.MessageCreationData) (domain.Message, error) {
	row := s.db.QueryRow(`
	INSERT INTO messages(sender_id, sender_username, sender_name, text, media_url, media_type)
	VALUES($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, updated_at`,
		data.SenderId, data.SenderUsername, data.SenderName, data.Text, data.MediaUrl, data.MediaType)

	msg := domain.Message{
		SenderId:       data.SenderId,
		SenderUsername: data.SenderUsername,
		SenderName:     data.SenderName,
		Text:           data.Text,
		MediaUrl:       data.MediaUrl,
		MediaType:      data.MediaType,
	}
	if err := row.Scan(&msg.Id, &msg.CreatedAt, &msg.UpdatedAt); err != nil {
		return domain.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}
	return msg, nil
}

func (s *Storage) GetMessage(id domain.MsgId) (domain.Message, error) {
	row := s.db.QueryRow(`SELECT `+messageColumns+` FROM messages m WHERE m.id = $1`, id)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Message{}, &internal_errors.ErrorWithStatusCode{Message: "Message not found", StatusCode: 404}
		}
		return domain.Message{}, fmt.Errorf("failed to fetch message %d: %w", id, err)
	}
	return msg, nil
}

// MessagesPage returns one page of the feed ordered by creation time
// descending, ties broken by id descending. senderId == nil means the
// global feed, otherwise the page is restricted to that author.
func (s *Storage) MessagesPage(senderId *domain.UserId, offset, limit int) ([]domain.Message, error) {
	rows, err := s.db.Query(`
	SELECT `+messageColumns+`
	FROM messages m
	WHERE $1::bigint IS NULL OR m.sender_id = $1
	ORDER BY m.created_at DESC, m.id DESC
	OFFSET $2 LIMIT $3`, senderId, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages page: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// CountMessages returns the total feed size, optionally scoped to one sender.
func (s *Storage) CountMessages(senderId *domain.UserId) (int, error) {
	var total int
	err := s.db.QueryRow(`
	SELECT COUNT(*) FROM messages m
	WHERE $1::bigint IS NULL OR m.sender_id = $1`, senderId).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return total, nil
}

// LatestMessagesBySenders fetches the newest message of each given
// sender in one query. Senders with no messages are absent from the map.
func (s *Storage) LatestMessagesBySenders(senderIds []domain.UserId) (map[domain.UserId]domain.Message, error) {
	latest := make(map[domain.UserId]domain.Message)
	if len(senderIds) == 0 {
		return latest, nil
	}

	rows, err := s.db.Query(`
	SELECT DISTINCT ON (m.sender_id) `+messageColumns+`
	FROM messages m
	WHERE m.sender_id = ANY($1)
	ORDER BY m.sender_id, m.created_at DESC, m.id DESC`, pq.Array(senderIds))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan latest message row: %w", err)
		}
		latest[msg.SenderId] = msg
	}
	return latest, rows.Err()
}

// MessageCountsBySenders returns per-sender totals in one query.
// Senders with no messages are absent from the map.
func (s *Storage) MessageCountsBySenders(senderIds []domain.UserId) (map[domain.UserId]int, error) {
	counts := make(map[domain.UserId]int)
	if len(senderIds) == 0 {
		return counts, nil
	}

	rows, err := s.db.Query(`
	SELECT sender_id, COUNT(*)
	FROM messages
	WHERE sender_id = ANY($1)
	GROUP BY sender_id`, pq.Array(senderIds))
	if err != nil {
		return nil, fmt.Errorf("failed to count messages by sender: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var senderId domain.UserId
		var count int
		if err := rows.Scan(&senderId, &count); err != nil {
			return nil, fmt.Errorf("failed to scan sender count row: %w", err)
		}
		counts[senderId] = count
	}
	return counts, rows.Err()
}
