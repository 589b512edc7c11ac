package main

import (
	_ "time/tzdata"

	"github.com/PYAG1/scheduling-agent/cmd"
)

// version will be set by goreleaser during build
var version = "dev"

func main() {
	// Set the version from build-time variable
	cmd.SetVersion(version)

	// Execute the root command
	cmd.Execute()
}
