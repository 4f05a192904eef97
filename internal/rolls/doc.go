// Package rolls reads the roll numbers of a batch run from CSV input.
package rolls
