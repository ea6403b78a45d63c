// Package consts contains constants for the media domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart = Command{Name: "start", Description: "Start the bot"}
	CommandHelp  = Command{Name: "help", Description: "Show help message"}
	CommandStats = Command{Name: "stats", Description: "Show usage statistics (admin only)"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandHelp,
	CommandStats,
}

// Download log statuses
const (
	StatusSuccess    = "success"
	StatusPartial    = "partial"
	StatusInvalidURL = "invalid_url"
	StatusRateLimit  = "rate_limit"
	StatusNoMedia    = "no_media"
	StatusTooLarge   = "too_large"
	StatusBusy       = "busy"
	StatusError      = "error"
)
