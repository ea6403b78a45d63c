// Package dto contains data transfer objects for the media domain
package dto

// StartCommandRequest represents a request to handle /start command
type StartCommandRequest struct {
	ChatID       int64  `json:"chatId"`
	Username     string `json:"username"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	LanguageCode string `json:"languageCode"`
}

// DownloadRequest represents a submitted link to process
type DownloadRequest struct {
	ChatID int64  `json:"chatId" validate:"required"`
	URL    string `json:"url" validate:"required"`
}

// CommandResponse represents a response for bot commands
type CommandResponse struct {
	Message string `json:"message"`
}

// DownloadCompletedEvent represents a Kafka event for a finished download
type DownloadCompletedEvent struct {
	ChatID      int64  `json:"chat_id"`
	MediaURL    string `json:"media_url"`
	Status      string `json:"status"`
	MediaCount  int    `json:"media_count"`
	MediaTypes  string `json:"media_types"`
	FileSizesMB string `json:"file_sizes_mb"`
	CompletedAt string `json:"completed_at"`
}

// DownloadFailedEvent represents a Kafka event for a failed download
type DownloadFailedEvent struct {
	ChatID   int64  `json:"chat_id"`
	MediaURL string `json:"media_url"`
	Status   string `json:"status"`
	Error    string `json:"error"`
	FailedAt string `json:"failed_at"`
}
