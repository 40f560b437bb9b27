// Package glog centralizes the logrus.Logger construction shared by the
// planner, optimizer, and executor.
package glog

import "github.com/sirupsen/logrus"

// New returns a logger scoped to subsystem, e.g. "optimizer" or "executor".
func New(subsystem string) *logrus.Entry {
	l := logrus.StandardLogger()
	return l.WithField("system", subsystem)
}

// NewSilent returns a logger that discards everything, for tests that
// don't want optimizer/executor log noise on stdout.
func NewSilent(subsystem string) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(discard{})
	return l.WithField("system", subsystem)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
