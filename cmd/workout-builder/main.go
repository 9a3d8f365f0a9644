// Command workout-builder edits structured cycling workouts in a terminal
// UI and stores them in a local library
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
