package main

import (
	"fmt"
	"os"

	_ "time/tzdata"
)

const appVersion = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}
