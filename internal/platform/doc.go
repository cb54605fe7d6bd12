// Package platform contains filesystem and external tool helpers: output
// directory creation, safe file naming, locating files written by download
// backends, and discovery of ffmpeg and friends on PATH.
package platform
