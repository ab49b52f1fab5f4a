// Package main provides the wpkgctl command-line repository orchestrator.
package main

import "github.com/Xcraft-Inc/xcraft-contrib-wpkg/cmd/wpkgctl/command"

func main() {
	command.Execute()
}
