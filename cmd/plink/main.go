// Command plink finds practice links for interview write-ups from the terminal.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
