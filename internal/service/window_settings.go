package service

import (
	"database/sql"
	"fmt"
	"strconv"

	"posterdesk/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// App settings: window size and last page preset
// ─────────────────────────────────────────────────────────────

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowSettingsService persists small UI settings in app_settings.
type WindowSettingsService struct {
	db *storage.DB
}

func NewWindowSettingsService(db *storage.DB) *WindowSettingsService {
	return &WindowSettingsService{db: db}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	settingLastPageKey  = "last_page_key"
	defaultWindowWidth  = 1440
	defaultWindowHeight = 900
	minWindowWidth      = 800
	minWindowHeight     = 600
)

// LoadWindowSize returns the saved window dimensions, or defaults.
func (s *WindowSettingsService) LoadWindowSize() WindowSize {
	size := WindowSize{Width: defaultWindowWidth, Height: defaultWindowHeight}
	if s.db == nil {
		return size
	}
	if w, err := s.get(settingWindowWidth); err == nil {
		if n, err := strconv.Atoi(w); err == nil && n >= minWindowWidth {
			size.Width = n
		}
	}
	if h, err := s.get(settingWindowHeight); err == nil {
		if n, err := strconv.Atoi(h); err == nil && n >= minWindowHeight {
			size.Height = n
		}
	}
	return size
}

// SaveWindowSize persists the current window dimensions.
func (s *WindowSettingsService) SaveWindowSize(width, height int) error {
	if s.db == nil {
		return fmt.Errorf("window settings: no db")
	}
	if err := s.set(settingWindowWidth, strconv.Itoa(width)); err != nil {
		return err
	}
	return s.set(settingWindowHeight, strconv.Itoa(height))
}

// LastPageKey returns the preset of the last new poster, or "".
func (s *WindowSettingsService) LastPageKey() string {
	if s.db == nil {
		return ""
	}
	v, _ := s.get(settingLastPageKey)
	return v
}

func (s *WindowSettingsService) SetLastPageKey(key string) error {
	if s.db == nil {
		return fmt.Errorf("window settings: no db")
	}
	return s.set(settingLastPageKey, key)
}

func (s *WindowSettingsService) get(key string) (string, error) {
	var v string
	err := s.db.Conn().QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&v)
	return v, err
}

func (s *WindowSettingsService) set(key, value string) error {
	return upsertSetting(s.db.Conn(), key, value)
}

func upsertSetting(conn *sql.DB, key, value string) error {
	_, err := conn.Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
