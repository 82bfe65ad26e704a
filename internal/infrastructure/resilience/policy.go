package resilience

import "time"

// Profile names a family of defaults. Unset Config fields are filled from
// the profile's defaults.
type Profile string

const (
	// ProfileCompletion covers LLM completion calls, which take seconds and
	// fail in bursts when the model server is overloaded.
	ProfileCompletion Profile = "completion"
	// ProfilePublish covers upload-event publishes to the broker, which
	// are cheap and usually fail only across a reconnect.
	ProfilePublish Profile = "publish"
)

type Config struct {
	Profile Profile

	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

// CompletionDefaults backs off for seconds between attempts and opens the
// breaker after a few failed calls, holding it open for a minute.
func CompletionDefaults() Config {
	return Config{
		Profile:             ProfileCompletion,
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 500 * time.Millisecond,
		RetryMaxBackoff:     5 * time.Second,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      3,
		BreakerFailureRatio:     0.6,
		BreakerOpenTimeout:      60 * time.Second,
		BreakerHalfOpenMaxCalls: 1,
	}
}

// PublishDefaults retries quickly and only trips the breaker under sustained
// traffic, closing it again after a short pause.
func PublishDefaults() Config {
	return Config{
		Profile:             ProfilePublish,
		RetryMaxAttempts:    4,
		RetryInitialBackoff: 50 * time.Millisecond,
		RetryMaxBackoff:     400 * time.Millisecond,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      20,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      10 * time.Second,
		BreakerHalfOpenMaxCalls: 3,
	}
}

// Defaults returns the defaults for p; an empty or unknown profile maps to
// the completion defaults.
func Defaults(p Profile) Config {
	if p == ProfilePublish {
		return PublishDefaults()
	}
	return CompletionDefaults()
}

func (c Config) normalize() Config {
	out := c
	def := Defaults(out.Profile)
	out.Profile = def.Profile

	if out.RetryMaxAttempts <= 0 {
		out.RetryMaxAttempts = def.RetryMaxAttempts
	}
	if out.RetryInitialBackoff <= 0 {
		out.RetryInitialBackoff = def.RetryInitialBackoff
	}
	if out.RetryMaxBackoff <= 0 {
		out.RetryMaxBackoff = def.RetryMaxBackoff
	}
	if out.RetryMaxBackoff < out.RetryInitialBackoff {
		out.RetryMaxBackoff = out.RetryInitialBackoff
	}
	if out.RetryMultiplier < 1.0 {
		out.RetryMultiplier = def.RetryMultiplier
	}

	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if out.BreakerHalfOpenMaxCalls == 0 {
		out.BreakerHalfOpenMaxCalls = def.BreakerHalfOpenMaxCalls
	}

	return out
}
