package models

import "time"

// RateLimitState is the last observed quota of the remote API
type RateLimitState struct {
	IsLimited bool  `json:"is_limited"`
	ResetTime int64 `json:"reset_time,omitempty"` // epoch seconds, only set while limited
	Remaining int   `json:"remaining"`
	Limit     int   `json:"limit"`
}

// SecondsUntilReset returns how long the limit still holds, or 0 once it is over
func (s RateLimitState) SecondsUntilReset(now time.Time) int64 {
	if !s.IsLimited || s.ResetTime == 0 {
		return 0
	}
	left := s.ResetTime - now.Unix()
	if left < 0 {
		return 0
	}
	return left
}
