package main

import (
	"flag"
	"fmt"

	"github.com/ligustah/trawl/internal/digest"
)

// runHash prints the digest trawl uses for deduplication, one line per file.
func runHash(args []string) int {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: trawl hash <file>...

Print the SHA-256 digest of each file in the form "<hex>  <path>".`)
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		return ExitInvalidArgs
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: at least one file is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	code := ExitSuccess
	for _, path := range fs.Args() {
		d, err := digest.SumFile(path)
		if digest.IsNotExist(err) {
			fmt.Fprintf(stderr, "Error: %s: no such file\n", path)
			code = ExitGeneralError
			continue
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			code = ExitGeneralError
			continue
		}
		fmt.Fprintf(stdout, "%s  %s\n", d, path)
	}
	return code
}
