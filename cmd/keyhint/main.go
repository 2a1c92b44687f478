// Package main is the entry point for keyhint.
package main

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	Execute()
}
