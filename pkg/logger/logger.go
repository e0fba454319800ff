package logger

import (
	"fmt"
	"log"
	"os"
)

// New returns a stdlib-backed logger with a component prefix, for the
// places where structured logging is overkill (startup failures, state
// store notices).
func New(component string) *log.Logger {
	prefix := fmt.Sprintf("[%s] ", component)
	return log.New(os.Stderr, prefix, log.LstdFlags)
}
