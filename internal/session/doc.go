// Package session supervises the local bridge to the Scanner master: a
// `kubectl port-forward` to the master pod and a `kubectl proxy` beside it.
//
// At most one session exists per machine. Its forward process id is kept in
// a lock file so a later invocation can find and terminate it before
// starting its own. Both processes of a session share one process group
// whose id is the forward pid, so the lock file entry addresses the whole
// session.
//
// A session moves through NoSession, Starting, Active and Terminating.
// Start launches it, Teardown stops it, and Run does both around a blocking
// wait for cancellation or the forward process exiting.
package session
