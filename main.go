// Package main is the entry point for the covgate CLI.
package main

import "covgate.dev/pkg/covgate/cmd"

func main() {
	cmd.Execute()
}
