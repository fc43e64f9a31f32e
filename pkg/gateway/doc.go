// Package gateway assembles and runs the mail gateway process.
//
// A Gateway owns one immutable configuration snapshot and the runtime
// collaborators built from it: the SMTP engine, the HTTP front, the
// certificate manager, and the orchestrator. Start brings them up in
// dependency order and blocks until a shutdown signal; Shutdown tears
// them down in reverse.
//
// Collaborators are interfaces so the process can run in local or
// backend mode with different implementations behind the same
// lifecycle.
package gateway
