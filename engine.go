// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package queryengine is the façade wiring Planner -> Optimizer ->
// Executor end to end behind a single Engine.Query entry point, because a
// complete, buildable repository needs a caller-facing entry point rather
// than three components a caller has to wire up itself.
package queryengine

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/relatedb/queryengine/graph"
	"github.com/relatedb/queryengine/internal/glog"
	"github.com/relatedb/queryengine/optimizer"
	"github.com/relatedb/queryengine/plan"
	"github.com/relatedb/queryengine/planner"
	"github.com/relatedb/queryengine/rowexec"
)

// Engine wires together a Planner, Optimizer, and Executor against a
// single graph.Graph collaborator.
type Engine struct {
	cfg Config
	g   graph.Graph

	planner   *planner.Planner
	optimizer *optimizer.Optimizer
	executor  *rowexec.Executor

	log *logrus.Entry
}

// NewEngine returns an Engine reading from g, configured by cfg.
func NewEngine(cfg Config, g graph.Graph) *Engine {
	cfg = cfg.withDefaults()
	log := glog.New("queryengine")
	log.Logger.SetLevel(cfg.logLevel())

	return &Engine{
		cfg:       cfg,
		g:         g,
		planner:   planner.New(log.WithField("stage", "plan")),
		optimizer: optimizer.New(log.WithField("stage", "optimize")),
		executor:  rowexec.New(log.WithField("stage", "execute")),
		log:       log,
	}
}

// Query runs ast through Plan, Optimize, and Execute against graphName,
// returning the accumulated ResultSet. A row cap from cfg.MaxRows, if
// positive, truncates the result set without affecting the underlying
// plan's correctness — it is enforced by the facade, not the executor,
// since the executor's contract has no notion of a row limit.
func (e *Engine) Query(ctx context.Context, graphName string, ast *graph.AST) (*graph.ResultSet, error) {
	root, err := e.planner.Plan(ctx, graphName, ast)
	if err != nil {
		return nil, err
	}

	optimizedRoot, err := e.optimizer.Optimize(root, ast.Match, ast.Where)
	if err != nil {
		return nil, err
	}
	defer plan.Free(optimizedRoot)

	rs, err := e.executor.Run(ctx, optimizedRoot, e.g)
	if err != nil {
		return rs, err
	}

	if e.cfg.MaxRows > 0 && rs.Len() > e.cfg.MaxRows {
		rs.Rows = rs.Rows[:e.cfg.MaxRows]
		rs.Truncated = true
	}
	return rs, nil
}

// Close releases engine-level resources. The graph storage collaborator
// outlives a single Engine, so Close does not touch it; it exists for
// symmetry with other Close methods in this stack and for future
// resources (e.g. a query cache) this façade may grow.
func (e *Engine) Close() error {
	return nil
}
