// Package ui holds the terminal helpers of the wizard: coloured status
// lines and a single-line progress bar.
package ui
