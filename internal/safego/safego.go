// Package safego runs functions with their panics written to the log
// first. The terminal UI owns stdout, so a crash report printed there
// would be lost
package safego

import (
	"log"
	"runtime/debug"
)

// Go runs fn on a new goroutine. A panic is logged with its stack and
// then re-raised
func Go(logger *log.Logger, fn func()) {
	go Run(logger, fn)
}

// Run calls fn on the current goroutine with the same panic logging as Go
func Run(logger *log.Logger, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("PANIC: %v\n%s", r, debug.Stack())
			panic(r)
		}
	}()
	fn()
}
