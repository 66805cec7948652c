package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hookgate/hookgate/internal/report"
)

// ExitError is used for configuration or runtime problems, never for check
// failures: those exit with report.ExitBlocked so the harness can tell the
// two apart.
const ExitError = 1

// BlockedError indicates the run completed but one or more checks failed in
// blocking mode. The reporter has already written the details to stderr.
type BlockedError struct {
	Failed int
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%d check(s) failed", e.Failed)
}

func main() {
	if err := execute(); err != nil {
		var blocked *BlockedError
		if errors.As(err, &blocked) {
			os.Exit(report.ExitBlocked)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitError)
	}
}
