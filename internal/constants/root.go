package constants

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionState represents the current screen of the TUI application
type SessionState int

// TokenBackend selects where the session token is persisted
type TokenBackend string

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

const (
	AppName            = "focusflow"
	DisplayName        = "FocusFlow"
	DefaultKeyringUser = "auth-token"
	DefaultConfigDir   = "~/.config/focusflow"
	DefaultDBName      = "focusflow.db"
	DefaultConfigFile  = "config.toml"
	Version            = "v0.3.0"

	// DefaultAPIURL is the base path of the FocusFlow REST API
	DefaultAPIURL = "http://localhost:5134/api"

	// TokenStorageKey is the fixed key the session token is stored under
	TokenStorageKey = "authToken"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used for month arguments (YYYY-MM)
	MonthFormat = "2006-01"

	// MonthTitleFormat renders the calendar header, e.g. "June 2025"
	MonthTitleFormat = "January 2006"

	// Validation limits
	MinPasswordLength = 6
	MaxTitleLength    = 200

	// Request pacing defaults for the API client
	DefaultRequestsPerSecond = 10
	DefaultRequestBurst      = 5
	RequestIDHeader          = "X-Request-ID"

	// Lockfile constants
	TUILockfileName    = "focusflow-tui.lock"
	LockAcquireTimeout = 2 * time.Second

	// Calendar color tags
	ColorTagDone    = "done"
	ColorTagPending = "pending"

	// Token backends
	TokenBackendAuto    TokenBackend = "auto"
	TokenBackendKeyring TokenBackend = "keyring"
	TokenBackendLocal   TokenBackend = "local"

	// Setting keys
	SettingAPIURL    = "api_url"
	SettingWeekStart = "week_start"
	SettingOnlyDay   = "only_selected_day"
	DefaultWeekStart = "sunday"
)

// Session States
const (
	StateLoading SessionState = iota
	StateLogin
	StateSignUp
	StateTasks
	StateCalendar
	StateEditing
	StateConfirmDelete
)
