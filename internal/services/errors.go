package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRateLimited means the remote API quota is exhausted
	ErrRateLimited = errors.New("github API rate limit exceeded")
	// ErrNetwork means the request never produced a response
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse means the body did not have the expected shape
	ErrMalformedResponse = errors.New("malformed response")
	// ErrSourceUnavailable means the organization's repository list could not be loaded
	ErrSourceUnavailable = errors.New("repository list unavailable")
)

// RateLimitedError carries the quota state reported alongside a 403
type RateLimitedError struct {
	ResetTime int64
	Remaining int
	Limit     int
}

func (e *RateLimitedError) Error() string {
	if e.ResetTime == 0 {
		return ErrRateLimited.Error()
	}
	return fmt.Sprintf("%s, resets at %s", ErrRateLimited, time.Unix(e.ResetTime, 0).UTC().Format(time.RFC3339))
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// NetworkError wraps a transport failure with the message shown to users
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("unable to reach GitHub, showing demo data: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// StatusError is any other non-2xx response
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub API returned status %d for %s", e.StatusCode, e.Path)
}
