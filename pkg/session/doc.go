/*
Package session implements session management and persistence orchestration.

The wizard reducer is single-threaded and side-effect free. The Manager is what makes it
safe to serve many users: every operation on a session runs under a per-session lock,
optionally backed by a distributed lock so several replicas can share one store.
*/
package session
