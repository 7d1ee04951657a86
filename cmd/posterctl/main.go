// posterctl drives PosterDesk templates from the command line: it lists
// page sizes and templates, exports templates and talks to the catalog.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
