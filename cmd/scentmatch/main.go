// Command scentmatch is the fragrance recommendation service and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/scentlab/scentmatch/cmd/scentmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
