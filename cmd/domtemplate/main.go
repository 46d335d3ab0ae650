// Command domtemplate binds JSON or YAML data into HTML documents.
package main

import (
	"os"

	"github.com/goliatone/go-domtemplate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
