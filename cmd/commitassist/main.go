// Package main is the entry point for the commitassist CLI application.
// commitassist suggests a commit message for the staged changes using a
// locally running model and commits it once confirmed.
package main

import (
	"fmt"
	"os"

	"github.com/commitassist/commitassist/internal/cmd"
	apperrors "github.com/commitassist/commitassist/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCmd(version, commit, date)
	err := rootCmd.Execute()
	if err != nil {
		if apperrors.IsVerbose() {
			fmt.Fprintln(os.Stderr, apperrors.FormatErrorVerbose(err))
		} else {
			fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
		}
	}
	os.Exit(apperrors.GetExitCode(err))
}
