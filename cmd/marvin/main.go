// Package main provides the marvin command.
//
// Usage:
//
//	marvin [flags] <command> [args]
//
// Commands:
//
//	serve   - run the dashboard, perception loops and command router
//	ask     - handle one command and print the responses
//	repl    - interactive text session; :listen switches to voice input
//	remote  - send commands to a running server over a websocket
//
// Configuration is read from MARVIN_* environment variables, an optional
// .env file and marvin.yaml in the working directory or the data dir.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
