// The main package for the webpdf executable.
package main

import (
	"github.com/WorkOfStan/web-pages-to-pdf/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
