// SPDX-License-Identifier: MIT

// Command cellauto generates, measures and analyzes one-dimensional binary
// cellular automata.
//
//	cellauto generate --rule 30 --columns 41
//	cellauto recognize --rule 110 --pattern-length 4 --top 5
//	cellauto batch --rules 30,90,110 --cache
//	cellauto bench --sizes 100,200,400 --layout row-by-row
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
