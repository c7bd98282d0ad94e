// Package utils provides common helpers for envcompare.
// It converts raw database driver values into comparison values, bounds
// the size of large text values and parses loose user input such as
// comma separated key lists.
package utils
