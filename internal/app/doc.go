// Package app contains the core application logic. It wires configuration,
// logging and the function factory together and evaluates queries, decoupled
// from any specific entrypoint like a CLI or server.
package app
