// Package main provides the entry point for the hitksoup CLI.
//
// hitksoup fetches semester results (name, registration number and GPAs)
// from a university result portal, one roll at a time or for a whole CSV
// of rolls, using a per-semester extraction profile.
//
// Usage:
//
//	hitksoup fetch 10400117001 -s 5 -y 2019
//	hitksoup batch rolls.csv -s 6 -y 2019 --output results.csv
//	hitksoup interactive
//
// See --help for all available options.
package main

func main() {
	Execute()
}
