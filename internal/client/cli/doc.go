// Package cli provides the credkeeper command-line client.
//
// It wires configuration and the HTTP API client into a cobra command tree:
//
//	credkeeper-cli signup --name Ann --email ann@example.org
//	credkeeper-cli login --email ann@example.org
//	credkeeper-cli ping
//
// Passwords are always prompted for and read without echo when stdin is a
// terminal; piped input is read as a single line.
package cli
