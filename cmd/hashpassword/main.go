// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command hashpassword prints a bcrypt hash for provisioning an admin row:
//
//	go run ./cmd/hashpassword 'correct horse battery staple'
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/danielhkuo/quickly-vote/auth"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hashpassword", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: hashpassword <plain-password>")
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() != 1 || fs.Arg(0) == "" {
		fs.Usage()
		return 1
	}

	hash, err := auth.HashPassword(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintln(stdout, hash)
	return 0
}
