// Package engine schedules transform nodes over their dependency graph.
// Nodes with satisfied inputs run concurrently; a failed node marks every
// transitive dependent skipped while unrelated branches keep running.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/euromarts-io/euromarts/internal/metrics"
	"github.com/euromarts-io/euromarts/pkg/types"
)

// Node is one unit of work in the graph. Inputs name the nodes that must
// succeed before this one runs.
type Node struct {
	Name   string
	Inputs []string
	Run    func(ctx context.Context) error
}

// NodeResult records how one node finished.
type NodeResult struct {
	Name     string
	Status   types.NodeStatus
	Err      error
	Duration time.Duration
}

// Report summarizes one graph execution in topological order.
type Report struct {
	Results []NodeResult
}

// Failed reports whether any node failed.
func (r Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == types.NodeFailed {
			return true
		}
	}
	return false
}

// Counts returns the number of ran, skipped, and failed nodes.
func (r Report) Counts() (ran, skipped, failed int) {
	for _, res := range r.Results {
		switch res.Status {
		case types.NodeRan:
			ran++
		case types.NodeSkipped:
			skipped++
		case types.NodeFailed:
			failed++
		}
	}
	return ran, skipped, failed
}

// Graph is a set of named nodes and their dependency edges.
type Graph struct {
	nodes map[string]Node
	order []string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]Node)}
}

// Add registers a node. Registering the same name twice is an error.
func (g *Graph) Add(n Node) error {
	if n.Name == "" {
		return fmt.Errorf("node has no name")
	}
	if _, ok := g.nodes[n.Name]; ok {
		return fmt.Errorf("duplicate node %q", n.Name)
	}
	if n.Run == nil {
		return fmt.Errorf("node %q has no run function", n.Name)
	}
	g.nodes[n.Name] = n
	g.order = append(g.order, n.Name)
	return nil
}

// TopoSort returns the node names in dependency order, inputs before
// dependents. It fails on unknown inputs and on cycles. Ordering is
// deterministic: ties break on registration order.
func (g *Graph) TopoSort() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for _, name := range g.order {
		n := g.nodes[name]
		for _, in := range n.Inputs {
			if _, ok := g.nodes[in]; !ok {
				return nil, fmt.Errorf("node %q depends on unknown node %q", name, in)
			}
			indegree[name]++
			dependents[in] = append(dependents[in], name)
		}
	}

	var ready, sorted []string
	for _, name := range g.order {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		sorted = append(sorted, name)
		for _, dep := range dependents[name] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	if len(sorted) != len(g.nodes) {
		remaining := make([]string, 0)
		for _, name := range g.order {
			found := false
			for _, s := range sorted {
				if s == name {
					found = true
					break
				}
			}
			if !found {
				remaining = append(remaining, name)
			}
		}
		sort.Strings(remaining)
		return nil, fmt.Errorf("dependency cycle involving %v", remaining)
	}
	return sorted, nil
}

// Scheduler executes a graph wave by wave: each wave holds every node whose
// inputs have all finished, and the wave's nodes run concurrently.
type Scheduler struct {
	logger *slog.Logger
}

// NewScheduler creates a scheduler. A nil logger uses the default.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{logger: logger}
}

// Run executes the graph. Node failures do not abort the run; they skip the
// failed node's transitive dependents and surface in the report. Only a graph
// shape error (cycle, unknown input) or context cancellation returns an
// error.
func (s *Scheduler) Run(ctx context.Context, g *Graph) (Report, error) {
	sorted, err := g.TopoSort()
	if err != nil {
		return Report{}, err
	}

	status := make(map[string]types.NodeStatus, len(sorted))
	duration := make(map[string]time.Duration, len(sorted))
	errs := make(map[string]error, len(sorted))
	for _, name := range sorted {
		status[name] = types.NodePending
	}

	var mu sync.Mutex
	done := 0
	for done < len(sorted) {
		wave := nextWave(g, sorted, status)
		if len(wave) == 0 {
			return Report{}, fmt.Errorf("no runnable nodes with %d pending", len(sorted)-done)
		}

		// Settle skips before launching the wave so the status map is not
		// written concurrently.
		var runnable []string
		for _, name := range wave {
			if blocked(g, name, status) {
				status[name] = types.NodeSkipped
				metrics.NodesSkipped.Add(1)
				s.logger.Warn("node skipped", "node", name)
				done++
				continue
			}
			runnable = append(runnable, name)
		}

		grp, gctx := errgroup.WithContext(ctx)
		for _, name := range runnable {
			node := g.nodes[name]
			grp.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				start := time.Now()
				runErr := node.Run(gctx)
				elapsed := time.Since(start)

				mu.Lock()
				duration[name] = elapsed
				if runErr != nil {
					status[name] = types.NodeFailed
					errs[name] = runErr
					metrics.NodesFailed.Add(1)
				} else {
					status[name] = types.NodeRan
					metrics.NodesRan.Add(1)
				}
				mu.Unlock()

				if runErr != nil {
					s.logger.Error("node failed", "node", name, "duration", elapsed, "error", runErr)
					return nil
				}
				s.logger.Info("node ran", "node", name, "duration", elapsed)
				return nil
			})
			done++
		}
		if err := grp.Wait(); err != nil {
			return Report{}, fmt.Errorf("running wave: %w", err)
		}
	}

	report := Report{Results: make([]NodeResult, 0, len(sorted))}
	for _, name := range sorted {
		report.Results = append(report.Results, NodeResult{
			Name:     name,
			Status:   status[name],
			Err:      errs[name],
			Duration: duration[name],
		})
	}
	return report, nil
}

// nextWave returns the pending nodes whose inputs have all finished, whether
// successfully or not. Blocked nodes are included so Run can mark them
// skipped in dependency order.
func nextWave(g *Graph, sorted []string, status map[string]types.NodeStatus) []string {
	var wave []string
	for _, name := range sorted {
		if status[name] != types.NodePending {
			continue
		}
		settled := true
		for _, in := range g.nodes[name].Inputs {
			if status[in] == types.NodePending {
				settled = false
				break
			}
		}
		if settled {
			wave = append(wave, name)
		}
	}
	return wave
}

// blocked reports whether any input of name failed or was skipped.
func blocked(g *Graph, name string, status map[string]types.NodeStatus) bool {
	for _, in := range g.nodes[name].Inputs {
		if status[in] == types.NodeFailed || status[in] == types.NodeSkipped {
			return true
		}
	}
	return false
}
