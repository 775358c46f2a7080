// Command pcor-fields prints the fillable fields of a PCOR template, grouped
// by kind, with the form family it would be filled as and a suggested
// mapping for templates the family tables do not know yet.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
