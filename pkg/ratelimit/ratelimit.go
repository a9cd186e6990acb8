package ratelimit

import (
	"time"
)

// Rate defines the rate limit configuration
type Rate struct {
	Requests int
	Window   time.Duration
}

// RateLimitInfo contains information about the current rate limit status
type RateLimitInfo struct {
	Limit     int
	Remaining int
	// Reset is when the oldest request in the window expires
	Reset time.Time
}

// RateLimiter defines the interface for rate limiting implementations
type RateLimiter interface {
	// Allow checks if a request is allowed and returns rate limit info
	Allow(key string, limit Rate) (bool, RateLimitInfo)
	// Reset resets the rate limit for a key
	Reset(key string) error
}

// Common rate limits
var (
	// CheckInLimit covers the kiosk submit form (10 req/min per IP)
	CheckInLimit = Rate{
		Requests: 10,
		Window:   time.Minute,
	}

	// SpinLimit covers the public wheel (20 req/min per IP)
	SpinLimit = Rate{
		Requests: 20,
		Window:   time.Minute,
	}

	// GenerateLimit covers image generation, which is slow and billed upstream
	GenerateLimit = Rate{
		Requests: 5,
		Window:   time.Minute,
	}

	// StaffAPILimit is for authenticated dashboard endpoints (60 req/min)
	StaffAPILimit = Rate{
		Requests: 60,
		Window:   time.Minute,
	}
)
