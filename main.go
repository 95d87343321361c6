// Package main is the entry point for the shspec CLI.
package main

import "github.com/southpawriter02/shell-spec/cmd"

func main() {
	cmd.Execute()
}
