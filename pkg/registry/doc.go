// Package registry tracks in-progress blueprint generation sessions.
//
// A session is created once per generation request, mutated by exactly
// one driver goroutine, and read concurrently by pollers. Reads return
// deep-copied snapshots so callers can never observe partial mutation
// or reach back into registry-owned state. Sessions are evicted after
// a retention window regardless of status; a straggling driver whose
// session was evicted gets ErrSessionNotFound and abandons the run.
package registry
