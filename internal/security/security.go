// Package security keeps secrets out of logs and bounds how fast clients
// may drive the television.
package security
