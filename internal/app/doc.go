// Package app contains the core application logic. It wires the model
// loader, the instance builder and the flow engine into one run, decoupled
// from any specific entrypoint like a CLI.
package app
