// Command pybridge-go runs Python code in an interpreter embedded through
// pybridge.
package main

import (
	"context"
	"errors"
	"os"
)

func main() {
	if err := execute(context.Background(), os.Args[1:]); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}
