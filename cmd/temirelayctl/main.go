// temirelayctl is the operator CLI for temi-relay.
//
// It shares configuration with the Lambda function and is used to check
// broker credentials (send, check) or to run the full webhook handler
// locally against a synthetic gateway event (invoke).
package main

import (
	"fmt"
	"os"
)

// Version information - set at build time via ldflags
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
