package main

import (
	"fmt"
	"io"
	"os"
)

// Exit codes
const (
	ExitSuccess        = 0
	ExitGeneralError   = 1
	ExitInvalidArgs    = 2
	ExitStorageError   = 5
	ExitPartialFailure = 8
)

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runFetch(nil)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "fetch":
		return runFetch(cmdArgs)
	case "scan":
		return runScan(cmdArgs)
	case "hash":
		return runHash(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(stderr, `Usage: trawl <command> [options]

Commands:
  fetch   Download items from the source URL, skipping duplicate content (default)
  scan    Show where the next run resumes and how many unique items are stored
  hash    Print the SHA-256 digest of local files

Run 'trawl <command> -h' for command-specific help.`)
}
