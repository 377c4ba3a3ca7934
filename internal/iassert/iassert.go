// Package iassert implements invariant checks for conditions that
// indicate a programming error (fatal, per spec.md §7) rather than
// recoverable caller input. A failed check is logged with context via
// logrus; the caller is still expected to return a typed error — these
// helpers report whether the condition held, they never panic or exit.
package iassert

import "github.com/sirupsen/logrus"

// True logs an error with the given context if t is false, and
// returns t unchanged so call sites can fall through to their own
// typed-error path.
func True(t bool, format string, args ...interface{}) bool {
	if !t {
		logrus.Errorf("[internal] "+format, args...)
	}
	return t
}

// False is the inverse of True.
func False(t bool, format string, args ...interface{}) bool {
	return True(!t, format, args...)
}

// Fail unconditionally logs, for branches that are always a bug.
func Fail(format string, args ...interface{}) {
	True(false, format, args...)
}
