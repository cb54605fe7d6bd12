// Package cli wires configuration, logging, the download service and the
// terminal together behind the ytpick cobra command and maps the outcome of a
// run to a process exit code.
package cli
