// Package main is the single-binary entrypoint for Aura.
package main

import "github.com/aura-wellness/aura/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
