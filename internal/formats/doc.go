// Package formats turns the streams reported by a backend probe into the
// ordered list of options shown to the user.
//
// Two strategies exist. The merge strategy synthesizes one selector per
// distinct video height, using combined video+audio expressions when a muxing
// tool is available, and puts a synthetic "best" option on top. The
// progressive strategy keeps only streams that already contain audio and video
// in the configured container.
//
// Selector strings are written in the dialect of the backend that will receive
// them, described by a Syntax.
package formats
