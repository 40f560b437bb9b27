package graph

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Context carries everything an Operator needs to Consume a tuple: the
// graph storage collaborator, the shared binding tuple, a cancellation
// token, and a logger. It is the graph-engine analogue of the host
// module's sql.Context.
type Context struct {
	ctx    context.Context
	Graph  Graph
	Record *Record
	Log    *logrus.Entry
}

// NewContext builds a Context over a storage collaborator and a fresh,
// empty binding tuple.
func NewContext(ctx context.Context, g Graph, log *logrus.Entry) *Context {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Context{
		ctx:    ctx,
		Graph:  g,
		Record: NewRecord(),
		Log:    log,
	}
}

// Done returns the caller's cancellation channel. The executor does not
// select on it; it checks Err once per iteration of its top-level loop, and
// operators are otherwise unaware of cancellation.
func (c *Context) Done() <-chan struct{} {
	if c.ctx == nil {
		return nil
	}
	return c.ctx.Done()
}

// Err returns the cancellation cause, if any.
func (c *Context) Err() error {
	if c.ctx == nil {
		return nil
	}
	return c.ctx.Err()
}
