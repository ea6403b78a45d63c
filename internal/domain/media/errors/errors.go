// Package errors contains domain-specific errors for the media domain
package errors

import (
	pkgerrors "github.com/yourusername/media-saver-bot/pkg/errors"
)

// Domain errors for the resolution and delivery pipeline
var (
	ErrInvalidURL     = pkgerrors.NewValidationError("not an http(s) link")
	ErrRateLimited    = pkgerrors.NewRateLimitError("upstream API rate limit reached")
	ErrUpstream       = pkgerrors.NewUnavailableError("upstream resolution failed")
	ErrNoMedia        = pkgerrors.NewNotFoundError("no media found for link")
	ErrAllTooLarge    = pkgerrors.NewValidationError("all variants exceed the size ceiling")
	ErrDeliveryFailed = pkgerrors.NewInternalError("all delivery attempts failed")
	ErrBusy           = pkgerrors.NewUnavailableError("too many downloads in progress")
	ErrStreamTooLarge = pkgerrors.NewValidationError("stream exceeded the size ceiling")
	ErrTelegramAPI    = pkgerrors.NewInternalError("telegram API error")
)
