// Package remux stream-copies a downloaded file into another container with
// ffmpeg, reporting progress parsed from ffmpeg's -progress output.
package remux
