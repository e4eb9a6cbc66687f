// Command apihistory prints the versions of an API-description artifact
// and the pairs of versions a changelog has to compare.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
