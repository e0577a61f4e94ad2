// Command lectern is the CLI front end for the lecternd session daemon:
// transcribing lectures, regenerating study notes, and managing the library
// and course catalog over the daemon's unix socket.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	root := newRootCommand()
	err := root.Execute()
	if err == nil {
		return
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(1)
}
