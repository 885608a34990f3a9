package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
)

// IsJSONPath reports whether path selects the JSON file backend.
func IsJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

type jsonDocument struct {
	Version  int                     `json:"version"`
	Settings models.Settings         `json:"settings"`
	Users    map[string]models.User  `json:"users"`
	Habits   map[string]models.Habit `json:"habits"`
}

// JSONStore keeps the whole database in one JSON file, rewritten on every
// mutation. It suits small single-user setups and portable exports.
type JSONStore struct {
	path string
	doc  *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.doc = &jsonDocument{
		Version:  1,
		Settings: models.DefaultSettings(),
		Users:    make(map[string]models.User),
		Habits:   make(map[string]models.Habit),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitual init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Users == nil {
		doc.Users = make(map[string]models.User)
	}
	if doc.Habits == nil {
		doc.Habits = make(map[string]models.Habit)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temporary file first so a crash never leaves a
// truncated document behind.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	return s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONStore) AddUser(u models.User) error {
	if err := s.loaded(); err != nil {
		return err
	}
	for _, existing := range s.doc.Users {
		if existing.Username == u.Username {
			return fmt.Errorf("%q: %w", u.Username, errors.ErrUserExists)
		}
	}
	s.doc.Users[u.ID] = u
	return s.save()
}

func (s *JSONStore) GetUserByName(username string) (models.User, error) {
	if err := s.loaded(); err != nil {
		return models.User{}, err
	}
	for _, u := range s.doc.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("%q: %w", username, errors.ErrUserNotFound)
}

func (s *JSONStore) GetAllUsers() ([]models.User, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(s.doc.Users))
	for _, u := range s.doc.Users {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b models.User) int { return strings.Compare(a.Username, b.Username) })
	return users, nil
}

func (s *JSONStore) DeleteUser(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Users[id]; !ok {
		return errors.ErrUserNotFound
	}
	for hid, h := range s.doc.Habits {
		if h.UserID == id {
			delete(s.doc.Habits, hid)
		}
	}
	delete(s.doc.Users, id)
	return s.save()
}

func (s *JSONStore) AddHabit(h models.Habit) error {
	if err := s.loaded(); err != nil {
		return err
	}
	for _, existing := range s.doc.Habits {
		if existing.UserID == h.UserID && existing.Name == h.Name {
			return fmt.Errorf("%q: %w", h.Name, errors.ErrHabitExists)
		}
	}
	s.doc.Habits[h.ID] = cloneHabit(h)
	return s.save()
}

func (s *JSONStore) GetHabit(id string) (models.Habit, error) {
	if err := s.loaded(); err != nil {
		return models.Habit{}, err
	}
	h, ok := s.doc.Habits[id]
	if !ok {
		return models.Habit{}, errors.ErrHabitNotFound
	}
	return cloneHabit(h), nil
}

func (s *JSONStore) GetHabitByName(userID, name string) (models.Habit, error) {
	if err := s.loaded(); err != nil {
		return models.Habit{}, err
	}
	for _, h := range s.doc.Habits {
		if h.UserID == userID && h.Name == name {
			return cloneHabit(h), nil
		}
	}
	return models.Habit{}, fmt.Errorf("%q: %w", name, errors.ErrHabitNotFound)
}

func (s *JSONStore) GetAllHabits(userID string) ([]models.Habit, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	habits := []models.Habit{}
	for _, h := range s.doc.Habits {
		if h.UserID == userID {
			habits = append(habits, cloneHabit(h))
		}
	}
	slices.SortFunc(habits, func(a, b models.Habit) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return habits, nil
}

func (s *JSONStore) SaveHabitProgress(h models.Habit) error {
	if err := s.loaded(); err != nil {
		return err
	}
	stored, ok := s.doc.Habits[h.ID]
	if !ok {
		return fmt.Errorf("%q: %w", h.Name, errors.ErrHabitNotFound)
	}
	stored.CompletionDates = h.CompletionDates
	stored.Streak = h.Streak
	s.doc.Habits[h.ID] = cloneHabit(stored)
	return s.save()
}

func (s *JSONStore) DeleteHabit(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Habits[id]; !ok {
		return errors.ErrHabitNotFound
	}
	delete(s.doc.Habits, id)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// cloneHabit detaches the slices so callers cannot mutate the document.
func cloneHabit(h models.Habit) models.Habit {
	h.CompletionDates = slices.Clone(h.CompletionDates)
	h.Streak.Broken = slices.Clone(h.Streak.Broken)
	return h
}
