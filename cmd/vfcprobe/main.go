// Command vfcprobe records probe values from stdin and inspects exports.
//
// Usage:
//
//	vfcprobe record --output probes.csv < values.csv
//	vfcprobe inspect probes.csv
//	vfcprobe encode 1.0 0x1p-1074
//	vfcprobe decode AAAAAAAA8D8=
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
