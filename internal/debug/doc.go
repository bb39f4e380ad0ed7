// Package debug provides debug logging functionality for quire.
//
// When enabled via the --debug flag, it writes structured entries about
// loading, rendering faults and widget state changes to a log file, so the
// terminal UI itself stays clean.
package debug
