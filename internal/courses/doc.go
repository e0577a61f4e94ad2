// Package courses persists the course catalog: the named courses sessions
// are filed under, plus which course is currently active. This is the only
// durable state in the system; the session library itself lives in memory.
package courses
