// Package ui contains the terminal side of the program: colour-aware output
// writers, the line prompter used for URL and quality input, and the progress
// renderer that keeps one status line updated while a download runs.
package ui
