package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// NotificationKind distinguishes success and error banners
type NotificationKind string

const (
	AppName            = "keptword"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/keptword"
	Version            = "v0.1.0"

	// Storage slot keys
	KeyPromises     = "promises"
	KeyHasOnboarded = "hasOnboarded"

	// Backend names
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendFile     = "file"

	// FilterAll is the sentinel that disables the status and person filters
	FilterAll = "All"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "keptword-"
	BackupFileSuffix = ".db"

	// NotificationTTL is how long the TUI shows a notification banner
	NotificationTTL = 3 * time.Second
	// ClockRefreshInterval is how often the TUI redraws for the passing of time
	ClockRefreshInterval = time.Minute

	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Session States
const (
	StateOnboarding SessionState = iota
	StateJournal
	StateAbout
	StateEditing
	StateConfirmDelete
	StateConfirmClear
)
