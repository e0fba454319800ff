package domain

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable marks channel-listing or message-fetch failures.
// Fatal for the affected channel, never for the whole run (except when
// listing itself fails, which leaves no channels to process).
var ErrSourceUnavailable = errors.New("message source unavailable")

// StoreWriteError records a failed write to one remote table. Writes to
// other tables proceed regardless.
type StoreWriteError struct {
	Table string
	Err   error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("write table %s: %v", e.Table, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// ConfigError aggregates every missing-credential problem found at
// startup, before any side effect has happened.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	if len(e.Problems) == 1 {
		return "configuration: " + e.Problems[0]
	}
	return fmt.Sprintf("configuration: %d problems, first: %s", len(e.Problems), e.Problems[0])
}
