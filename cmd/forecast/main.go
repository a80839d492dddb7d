// Command forecast prints the price forecast for one stock or mutual fund.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
