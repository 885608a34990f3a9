package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const habitColumns = `
	h.id, h.user_id, h.name, h.frequency, h.created_at, h.completion_dates,
	COALESCE(s.current_streak, 0), COALESCE(s.longest_streak, 0), COALESCE(s.broken_streak_history, '')
	FROM habits h LEFT JOIN streaks s ON s.habit_id = h.id`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var r storage.HabitRow
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Frequency, &r.CreatedAt, &r.CompletionDates,
		&r.Current, &r.Longest, &r.BrokenHistory)
	if err != nil {
		return models.Habit{}, err
	}
	return r.ToHabit()
}

func (s *Store) AddHabit(h models.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO habits (id, user_id, name, frequency, created_at, completions_count, completion_dates)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.UserID, h.Name, string(h.Frequency), storage.FormatTimestamp(h.CreatedAt),
		h.CompletionsCount(), storage.EncodeDates(h.CompletionDates),
	)
	if err != nil {
		return fmt.Errorf("failed to add habit %q: %w", h.Name, err)
	}
	if err := writeStreak(tx, h); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRow("SELECT"+habitColumns+" WHERE h.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.ErrHabitNotFound
	}
	return h, err
}

func (s *Store) GetHabitByName(userID, name string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRow("SELECT"+habitColumns+" WHERE h.user_id = $1 AND h.name = $2", userID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("%q: %w", name, apperrors.ErrHabitNotFound)
	}
	return h, err
}

func (s *Store) GetAllHabits(userID string) ([]models.Habit, error) {
	rows, err := s.db.Query("SELECT"+habitColumns+" WHERE h.user_id = $1 ORDER BY h.created_at, h.name", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) SaveHabitProgress(h models.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"UPDATE habits SET completions_count = $1, completion_dates = $2 WHERE id = $3",
		h.CompletionsCount(), storage.EncodeDates(h.CompletionDates), h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save completions for %q: %w", h.Name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%q: %w", h.Name, apperrors.ErrHabitNotFound)
	}
	if err := writeStreak(tx, h); err != nil {
		return err
	}

	return tx.Commit()
}

func writeStreak(tx *sql.Tx, h models.Habit) error {
	_, err := tx.Exec(`
		INSERT INTO streaks (habit_id, current_streak, longest_streak, broken_streak_history)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (habit_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			broken_streak_history = EXCLUDED.broken_streak_history`,
		h.ID, h.Streak.Current, h.Streak.Longest, storage.EncodeInts(h.Streak.Broken),
	)
	if err != nil {
		return fmt.Errorf("failed to save streak for %q: %w", h.Name, err)
	}
	return nil
}

func (s *Store) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM streaks WHERE habit_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete streak: %w", err)
	}
	res, err := tx.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrHabitNotFound
	}

	return tx.Commit()
}
