// Package cli turns command-line arguments and FLOWGRID_* environment
// variables into a validated app.Config. Usage errors carry exit code 2.
package cli
