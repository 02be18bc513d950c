// Package services defines the error markers shared by the mopi pipeline.
//
// Every stage tags its failures with one of the exported sentinels through
// Wrap so the CLI can classify the outcome of a run (configuration problem,
// preflight refusal, contained frame failure, encoder failure) without
// parsing messages. ExitCode turns that classification into the process
// exit status.
package services
