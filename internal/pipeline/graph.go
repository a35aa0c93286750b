package pipeline

import (
	"fmt"
	"sort"

	"github.com/lucidity-ai/lucidity/internal/stages"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

// Graph is the static dependency graph over the stage set. An edge runs
// from stage A to stage B when B reads a slot A writes. It is computed
// once per pipeline construction and validated for acyclicity, so a
// mis-declared stage set fails at startup rather than deadlocking a run.
type Graph struct {
	stages []stages.Stage
	// writerOf maps each slot to the index of its owning stage.
	writerOf map[types.Slot]int
}

// NewGraph validates the stage declarations and builds the graph. It
// rejects duplicate slot writers, reads of slots nothing writes, and
// dependency cycles.
func NewGraph(set []stages.Stage) (*Graph, error) {
	writerOf := make(map[types.Slot]int, len(set))
	for i, st := range set {
		if st.Writes == "" || st.Writes == types.SlotFinalReport {
			return nil, fmt.Errorf("stage %q must write a result slot", st.Name)
		}
		if prev, ok := writerOf[st.Writes]; ok {
			return nil, fmt.Errorf("slot %q has two writers: %q and %q", st.Writes, set[prev].Name, st.Name)
		}
		writerOf[st.Writes] = i
	}

	for _, st := range set {
		for _, r := range st.Reads {
			if _, ok := writerOf[r]; !ok {
				return nil, fmt.Errorf("stage %q reads slot %q that no stage writes", st.Name, r)
			}
		}
	}

	g := &Graph{stages: set, writerOf: writerOf}
	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) checkAcyclic() error {
	const (
		unvisited = iota
		visiting
		done
	)
	marks := make([]int, len(g.stages))

	var visit func(i int) error
	visit = func(i int) error {
		switch marks[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle through stage %q", g.stages[i].Name)
		}
		marks[i] = visiting
		for _, r := range g.stages[i].Reads {
			if err := visit(g.writerOf[r]); err != nil {
				return err
			}
		}
		marks[i] = done
		return nil
	}

	for i := range g.stages {
		if err := visit(i); err != nil {
			return err
		}
	}
	return nil
}

// Stages returns the declared stage set.
func (g *Graph) Stages() []stages.Stage {
	return g.stages
}

// ready selects the stages that may be dispatched now: not yet started,
// with every read slot terminal. The result is ordered by declared
// priority; dispatch order never affects correctness since stages do not
// share write targets.
func (g *Graph) ready(started []bool, terminal []bool) []int {
	var out []int
	for i, st := range g.stages {
		if started[i] {
			continue
		}
		ok := true
		for _, r := range st.Reads {
			if !terminal[g.writerOf[r]] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		return g.stages[out[a]].Priority < g.stages[out[b]].Priority
	})
	return out
}
