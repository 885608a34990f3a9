package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func (s *Store) AddUser(u models.User) error {
	_, err := s.db.Exec(
		"INSERT INTO users (id, username, created_at) VALUES (?, ?, ?)",
		u.ID, u.Username, storage.FormatTimestamp(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to add user %q: %w", u.Username, err)
	}
	return nil
}

func (s *Store) GetUserByName(username string) (models.User, error) {
	var u models.User
	var createdAt string
	err := s.db.QueryRow(
		"SELECT id, username, created_at FROM users WHERE username = ?", username,
	).Scan(&u.ID, &u.Username, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("%q: %w", username, apperrors.ErrUserNotFound)
	}
	if err != nil {
		return models.User{}, err
	}

	u.CreatedAt, err = storage.ParseTimestamp(createdAt)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, username, created_at FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Username, &createdAt); err != nil {
			return nil, err
		}
		if u.CreatedAt, err = storage.ParseTimestamp(createdAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) DeleteUser(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM streaks WHERE habit_id IN (SELECT id FROM habits WHERE user_id = ?)", id); err != nil {
		return fmt.Errorf("failed to delete streaks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM habits WHERE user_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete habits: %w", err)
	}
	res, err := tx.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrUserNotFound
	}

	return tx.Commit()
}
