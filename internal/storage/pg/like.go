package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/itchan-dev/chanfeed/shared/domain"
	internal_errors "github.com/itchan-dev/chanfeed/shared/errors"
)

// SetLike adds or removes userId from the message's liker set.
// Membership-set semantics: repeating an insert or a delete is a no-op.
// The message's updated_at is bumped only when membership actually
// changed. Returns whether it did.
func (s *Storage) SetLike(messageId domain.MsgId, userId domain.UserId, like bool) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback() // The rollback will be ignored if the tx has been committed later in the function.

	// Existence check first so a missing message is 404, not a silent no-op.
	var exists bool
	err = tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM messages WHERE id = $1)`, messageId).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check message %d: %w", messageId, err)
	}
	if !exists {
		return false, &internal_errors.ErrorWithStatusCode{Message: "Message not found", StatusCode: 404}
	}

	var result sql.Result
	if like {
		result, err = tx.Exec(`
		INSERT INTO message_likes(message_id, user_id) VALUES($1, $2)
		ON CONFLICT (message_id, user_id) DO NOTHING`, messageId, userId)
	} else {
		result, err = tx.Exec(`
		DELETE FROM message_likes WHERE message_id = $1 AND user_id = $2`, messageId, userId)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update like: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if affected > 0 {
		if _, err = tx.Exec(`UPDATE messages SET updated_at = now() WHERE id = $1`, messageId); err != nil {
			return false, fmt.Errorf("failed to bump message timestamp: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return affected > 0, nil
}

func (s *Storage) LikeCount(messageId domain.MsgId) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM message_likes WHERE message_id = $1`, messageId).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes for message %d: %w", messageId, err)
	}
	return count, nil
}

func (s *Storage) IsLikedBy(messageId domain.MsgId, userId domain.UserId) (bool, error) {
	var liked bool
	err := s.db.QueryRow(`
	SELECT EXISTS(SELECT 1 FROM message_likes WHERE message_id = $1 AND user_id = $2)`,
		messageId, userId).Scan(&liked)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to check like membership: %w", err)
	}
	return liked, nil
}

// LikedMessageIds filters messageIds down to the ones userId has liked.
// One query per page fetch, avoids an N+1 per message.
func (s *Storage) LikedMessageIds(userId domain.UserId, messageIds []domain.MsgId) (map[domain.MsgId]bool, error) {
	liked := make(map[domain.MsgId]bool)
	if len(messageIds) == 0 {
		return liked, nil
	}

	rows, err := s.db.Query(`
	SELECT message_id FROM message_likes
	WHERE user_id = $1 AND message_id = ANY($2)`, userId, pq.Array(messageIds))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch liked messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id domain.MsgId
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan liked message id: %w", err)
		}
		liked[id] = true
	}
	return liked, rows.Err()
}
