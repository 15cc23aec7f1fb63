// cmd/brreg-lookup/main.go
package main

import (
	"os"

	"brreg-lookup/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args, os.Stdout, os.Stderr))
}
