// Package cli implements the oidrecord command line interface.
package cli
