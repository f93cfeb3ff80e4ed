package core

import (
	"sort"

	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

// StageNode is one stage in the flow graph, holding per-neighbor incoming
// and outgoing card counts. Nodes are owned and mutated only by FlowGraph.
type StageNode struct {
	Name     string
	IsFinal  bool
	Incoming map[string]int
	Outgoing map[string]int
}

// NewStageNode creates a stage node with empty edge maps.
func NewStageNode(name string, isFinal bool) *StageNode {
	return &StageNode{
		Name:     name,
		IsFinal:  isFinal,
		Incoming: make(map[string]int),
		Outgoing: make(map[string]int),
	}
}

// AddIncoming records count cards flowing in from another stage.
func (n *StageNode) AddIncoming(fromStage string, count int) {
	n.Incoming[fromStage] += count
}

// AddOutgoing records count cards flowing out to another stage.
func (n *StageNode) AddOutgoing(toStage string, count int) {
	n.Outgoing[toStage] += count
}

// TotalIncoming is the number of cards that flowed into this stage.
func (n *StageNode) TotalIncoming() int {
	total := 0
	for _, count := range n.Incoming {
		total += count
	}
	return total
}

// TotalOutgoing is the number of cards that flowed out of this stage.
func (n *StageNode) TotalOutgoing() int {
	total := 0
	for _, count := range n.Outgoing {
		total += count
	}
	return total
}

// Waiting returns the number of cards stuck at this stage: the incoming
// surplus, floored at zero. Final stages never have waiting cards.
func (n *StageNode) Waiting() int {
	if n.IsFinal {
		return 0
	}
	waiting := n.TotalIncoming() - n.TotalOutgoing()
	if waiting < 0 {
		return 0
	}
	return waiting
}

// FlowGraph is a directed graph over stage names accumulating card
// transition counts. Build it with NewFlowGraph, feed it journeys with
// AddJourney, then read it once with ToSankeyData.
type FlowGraph struct {
	pipeline   []string
	finals     map[string]bool
	Nodes      map[string]*StageNode
	TotalCards int

	waitingResolved bool
}

// NewFlowGraph creates a graph with one node per pipeline and terminal
// stage plus the reserved Waiting sink, all with zero edges.
func NewFlowGraph(pipelineStages, finalStages []string) *FlowGraph {
	g := &FlowGraph{
		pipeline: pipelineStages,
		finals:   make(map[string]bool, len(finalStages)),
		Nodes:    make(map[string]*StageNode),
	}

	for _, stage := range finalStages {
		g.finals[stage] = true
	}
	for _, stage := range pipelineStages {
		g.Nodes[stage] = NewStageNode(stage, false)
	}
	for _, stage := range finalStages {
		g.Nodes[stage] = NewStageNode(stage, true)
	}
	g.Nodes[models.WaitingStage] = NewStageNode(models.WaitingStage, true)

	return g
}

// node returns the node for name, creating it on first reference. Lazy
// creation is defensive: cleaned histories only carry configured stages,
// but the graph must tolerate novel names.
func (g *FlowGraph) node(name string) *StageNode {
	n, ok := g.Nodes[name]
	if !ok {
		n = NewStageNode(name, g.finals[name])
		g.Nodes[name] = n
	}
	return n
}

// AddJourney records one card's cleaned journey. Every journey counts
// toward TotalCards, including single-stage journeys that contribute no
// edges.
func (g *FlowGraph) AddJourney(stages []string) {
	if len(stages) == 0 {
		return
	}

	g.TotalCards++

	for i := 0; i < len(stages)-1; i++ {
		from := g.node(stages[i])
		to := g.node(stages[i+1])
		from.AddOutgoing(to.Name, 1)
		to.AddIncoming(from.Name, 1)
	}
}

// ResolveWaiting adds an edge to the Waiting sink for every stage holding
// more cards than it passed on. The first pipeline stage with no incoming
// flow is measured against TotalCards instead, since cards entering there
// produce no incoming edge. Safe to call more than once; only the first
// call mutates the graph.
func (g *FlowGraph) ResolveWaiting() {
	if g.waitingResolved {
		return
	}
	g.waitingResolved = true

	for _, name := range g.sortedNodeNames() {
		if name == models.WaitingStage {
			continue
		}
		node := g.Nodes[name]

		var waiting int
		if len(g.pipeline) > 0 && name == g.pipeline[0] && node.TotalIncoming() == 0 {
			waiting = g.TotalCards - node.TotalOutgoing()
			if waiting < 0 {
				waiting = 0
			}
		} else {
			waiting = node.Waiting()
		}

		if waiting > 0 {
			node.AddOutgoing(models.WaitingStage, waiting)
			g.Nodes[models.WaitingStage].AddIncoming(name, waiting)
		}
	}
}

// Flows flattens every node's outgoing edges into FlowData values, in
// sorted (from, to) name order so output is deterministic.
func (g *FlowGraph) Flows() []models.FlowData {
	var flows []models.FlowData

	for _, name := range g.sortedNodeNames() {
		node := g.Nodes[name]
		targets := make([]string, 0, len(node.Outgoing))
		for to := range node.Outgoing {
			targets = append(targets, to)
		}
		sort.Strings(targets)

		for _, to := range targets {
			flows = append(flows, models.FlowData{
				FromStage: name,
				ToStage:   to,
				Count:     node.Outgoing[to],
			})
		}
	}

	return flows
}

// ToSankeyData resolves waiting flows and returns the complete accounting.
func (g *FlowGraph) ToSankeyData() models.SankeyData {
	g.ResolveWaiting()
	return models.SankeyData{Flows: g.Flows(), TotalCards: g.TotalCards}
}

// ReachableStages returns every stage reachable from start by following
// outgoing edges, including start itself.
func (g *FlowGraph) ReachableStages(start string) map[string]bool {
	visited := make(map[string]bool)
	if _, ok := g.Nodes[start]; !ok {
		return visited
	}

	stack := []string{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true

		for next := range g.Nodes[current].Outgoing {
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}

	return visited
}

// ValidateFlowConservation reports whether the graph is consistent: final
// stages must never have outgoing flow. Incoming surpluses at non-final
// stages are legal before ResolveWaiting runs and resolved by it.
func (g *FlowGraph) ValidateFlowConservation() bool {
	for name, node := range g.Nodes {
		if name == models.WaitingStage {
			continue
		}
		if node.IsFinal && node.TotalOutgoing() > 0 {
			return false
		}
	}
	return true
}

func (g *FlowGraph) sortedNodeNames() []string {
	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
