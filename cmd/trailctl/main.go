// Command trailctl is the operator CLI for the certification service: it
// applies schema migrations, audits the reference data and runs one
// certification request offline against the reference database.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
