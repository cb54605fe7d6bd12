package model

// Package model defines the data passed between the stages of a run: probe
// results reported by a backend, the format options offered to the user,
// progress events, and the download task record with its status enum.
