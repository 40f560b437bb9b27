// Package optimizer implements three DAG rewrite passes, run in a fixed
// order by an Optimizer driving a Rule{ID, Apply} table: entry-point
// selection, then expand-merge, then filter pushdown. Each later pass
// depends on the one
// before it having finished: expand-merge needs entry points attached so
// it can walk the DAG by child edges, and filter pushdown needs the DAG
// shape finalized before computing which bindings are available at each
// PlanNode.
package optimizer

import (
	"github.com/sirupsen/logrus"

	"github.com/relatedb/queryengine/filtertree"
	"github.com/relatedb/queryengine/graph"
	"github.com/relatedb/queryengine/internal/glog"
	"github.com/relatedb/queryengine/plan"
)

// Plan bundles the mutable state the rule table's Apply functions observe
// and rewrite: the DAG root (which filter pushdown may replace), the
// pattern graph the planner built it from (entry-point selection and
// expand-merge both need pattern-level in/out-degree), and the remaining
// global filter tree (which pushdown destructively shrinks as it splices
// predicates into the DAG).
type Plan struct {
	Root    *plan.PlanNode
	Pattern *graph.PatternGraph
	Where   filtertree.Tree
}

// Rule is one named rewrite pass.
type Rule struct {
	ID    string
	Apply func(*Plan) error
}

// rules runs in this fixed order: entry points must exist before
// expand-merge can locate both converging ExpandAll nodes beneath a
// common scan frontier, and filter pushdown needs the DAG shape finalized
// before computing seen binding sets.
var rules = []Rule{
	{ID: "entrypoint_selection", Apply: applyEntrypointSelection},
	{ID: "expand_merge", Apply: applyExpandMerge},
	{ID: "filter_pushdown", Apply: applyFilterPushdown},
}

// Optimizer runs the rule table over a planner-built DAG.
type Optimizer struct {
	log *logrus.Entry
}

// New returns an Optimizer logging under the given entry, or a default one
// scoped to "optimizer" if log is nil.
func New(log *logrus.Entry) *Optimizer {
	if log == nil {
		log = glog.New("optimizer")
	}
	return &Optimizer{log: log}
}

// Optimize rewrites root in place (except where filter pushdown must
// replace the root itself) against pg and where, running every rule in
// order, and returns the possibly-new root.
func (o *Optimizer) Optimize(root *plan.PlanNode, pg *graph.PatternGraph, where filtertree.Tree) (*plan.PlanNode, error) {
	p := &Plan{Root: root, Pattern: pg, Where: where}
	for _, r := range rules {
		if err := r.Apply(p); err != nil {
			return nil, err
		}
		o.log.WithField("rule", r.ID).Debug("optimization rule applied")
	}
	return p.Root, nil
}
