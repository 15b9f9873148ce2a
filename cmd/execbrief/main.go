package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Batch completed
	ExitBatchFailed = 1 // Batch ran, but one or more subjects failed
	ExitError       = 2 // Configuration or runtime error
)

// BatchFailureError indicates the batch ran to completion but some subject
// reports could not be generated.
type BatchFailureError struct {
	Failed int
}

func (e *BatchFailureError) Error() string {
	return fmt.Sprintf("%d subject report(s) failed", e.Failed)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var batchErr *BatchFailureError
		if errors.As(err, &batchErr) {
			os.Exit(ExitBatchFailed)
		}

		os.Exit(ExitError)
	}
}
