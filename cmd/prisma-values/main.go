// Command prisma-values loads canonical query results from YAML fixtures and
// prints them as typed values.
//
// Usage:
//
//	prisma-values resolve users.yaml posts.yaml
//	prisma-values resolve -o table --verbose users.yaml
//	prisma-values decode value.json --format yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
