// Package integration_tests runs the whole application, from HCL files to
// the rendered report, against small architecture models.
package integration_tests
