package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is used for createdAt (ISO 8601 with milliseconds, UTC)
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// DisplayDateFormat is used when rendering follow-up dates
	DisplayDateFormat = "Jan 2, 2006"
)
