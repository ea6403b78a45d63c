// Package entities contains domain entities
package entities

import "time"

// User represents a Telegram user
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ChatID       int64     `json:"chatId" gorm:"uniqueIndex;not null"`
	Username     string    `json:"username"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	LanguageCode string    `json:"languageCode"`
	CreatedAt    time.Time `json:"createdAt"`
	LastSeenAt   time.Time `json:"lastSeenAt"`
}

// Download represents one processed link and its terminal outcome
type Download struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ChatID       int64     `json:"chatId" gorm:"index;not null"`
	MediaURL     string    `json:"mediaUrl" gorm:"not null"`
	Status       string    `json:"status" gorm:"index;not null"`
	ErrorMessage string    `json:"errorMessage"`
	MediaCount   int       `json:"mediaCount"`
	MediaTypes   string    `json:"mediaTypes"`
	FileSizesMB  string    `json:"fileSizesMb"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TypeCount is an aggregate row for /stats
type TypeCount struct {
	MediaTypes string `json:"mediaTypes"`
	Count      int64  `json:"count"`
}

// DayCount is a per-day activity row for /stats
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// DownloadStats aggregates usage statistics for the admin
type DownloadStats struct {
	UsersCount     int64       `json:"usersCount"`
	DownloadsCount int64       `json:"downloadsCount"`
	SuccessCount   int64       `json:"successCount"`
	SuccessRate    float64     `json:"successRate"`
	TopMediaTypes  []TypeCount `json:"topMediaTypes"`
	DailyActivity  []DayCount  `json:"dailyActivity"`
}
