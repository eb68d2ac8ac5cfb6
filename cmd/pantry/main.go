// filepath: cmd/pantry/main.go
package main

import "pantry/internal/cli"

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
