package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeStorage represents ledger-related errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeNotify represents notification transport errors
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypePublish represents stream publisher errors
	ErrorTypePublish ErrorType = "publish"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// WatchError represents a watcher-specific error
type WatchError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *WatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *WatchError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the next cycle can reasonably succeed
// without operator intervention.
func (e *WatchError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeStorage, ErrorTypeNotify, ErrorTypePublish:
		return true
	case ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}

// New creates a new WatchError
func New(errType ErrorType, component, message string, err error) *WatchError {
	return &WatchError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(component, message string, err error) *WatchError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(component, message string, err error) *WatchError {
	return New(ErrorTypeParsing, component, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(component string, duration time.Duration) *WatchError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, component, message, nil)
}

// NewStorage creates a new storage error
func NewStorage(component, message string, err error) *WatchError {
	return New(ErrorTypeStorage, component, message, err)
}

// NewNotify creates a new notification error
func NewNotify(component, message string, err error) *WatchError {
	return New(ErrorTypeNotify, component, message, err)
}

// NewPublish creates a new publisher error
func NewPublish(component, message string, err error) *WatchError {
	return New(ErrorTypePublish, component, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *WatchError {
	return New(ErrorTypeConfiguration, "", message, err)
}
