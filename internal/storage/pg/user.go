package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/itchan-dev/chanfeed/shared/domain"
	internal_errors "github.com/itchan-dev/chanfeed/shared/errors"
)

const userColumns = `
	id, username, first_name, last_name, passcode_hash, avatar_url,
	is_online, last_seen, created_at, updated_at`

func scanUser(row rowScanner) (domain.User, error) {
	var user domain.User
	var avatarUrl sql.NullString
	err := row.Scan(
		&user.Id, &user.Username, &user.FirstName, &user.LastName,
		&user.PasscodeHash, &avatarUrl, &user.IsOnline,
		&user.LastSeen, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	if avatarUrl.Valid {
		user.AvatarUrl = &avatarUrl.String
	}
	return user, nil
}

func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.db.QueryRow(`
	INSERT INTO users(username, first_name, last_name, passcode_hash, is_online, last_seen)
	VALUES($1, $2, $3, $4, $5, now())
	RETURNING id`,
		user.Username, user.FirstName, user.LastName, user.PasscodeHash, user.IsOnline).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Username already taken", StatusCode: 409}
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) UserByUsername(username domain.Username) (domain.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: 404}
		}
		return domain.User{}, fmt.Errorf("failed to fetch user %q: %w", username, err)
	}
	return user, nil
}

func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: 404}
		}
		return domain.User{}, fmt.Errorf("failed to fetch user %d: %w", id, err)
	}
	return user, nil
}

// SetOnlineStatus flips the presence flag and bumps last_seen.
func (s *Storage) SetOnlineStatus(userId domain.UserId, isOnline bool) error {
	result, err := s.db.Exec(`
	UPDATE users SET is_online = $2, last_seen = now(), updated_at = now()
	WHERE id = $1`, userId, isOnline)
	if err != nil {
		return fmt.Errorf("failed to update online status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: 404}
	}
	return nil
}

// OtherUsersOrdered returns every user except the viewer, ordered by
// presence then recency: online first, most recently seen first,
// username as the final tie-break.
func (s *Storage) OtherUsersOrdered(viewerId domain.UserId) ([]domain.User, error) {
	rows, err := s.db.Query(`
	SELECT `+userColumns+`
	FROM users
	WHERE id <> $1
	ORDER BY is_online DESC, last_seen DESC, username ASC`, viewerId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
