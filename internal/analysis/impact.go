package analysis

import (
	"gossipc/internal/git"
	"gossipc/internal/graph"
)

// ImpactReport summarizes the actors affected by a change to one source.
type ImpactReport struct {
	DirectlyAffected   []*graph.Node
	IndirectlyAffected []*graph.Node
}

// Names lists directly then indirectly affected actor names.
func (r *ImpactReport) Names() (direct, indirect []string) {
	for _, n := range r.DirectlyAffected {
		direct = append(direct, n.Name)
	}
	for _, n := range r.IndirectlyAffected {
		indirect = append(indirect, n.Name)
	}
	return direct, indirect
}

// Analyzer performs impact analysis on the connection graph of one source.
type Analyzer struct {
	g *graph.Graph
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(g *graph.Graph) *Analyzer {
	return &Analyzer{g: g}
}

// AnalyzeImpact returns the actors whose declared region overlaps a changed
// line, followed by the actors that send to them.
func (a *Analyzer) AnalyzeImpact(change git.ChangedFile) *ImpactReport {
	report := &ImpactReport{
		DirectlyAffected:   []*graph.Node{},
		IndirectlyAffected: []*graph.Node{},
	}

	seenDirect := make(map[string]bool)
	seenIndirect := make(map[string]bool)

	// 1. Find Direct Impacts
	for _, node := range a.g.Nodes {
		if isAffected(node, change.ChangedLines) && !seenDirect[node.Name] {
			report.DirectlyAffected = append(report.DirectlyAffected, node)
			seenDirect[node.Name] = true
		}
	}

	// 2. Find Indirect Impacts (Senders)
	for _, node := range report.DirectlyAffected {
		for _, dep := range a.g.GetSenders(node.Name) {
			if !seenDirect[dep.Name] && !seenIndirect[dep.Name] {
				report.IndirectlyAffected = append(report.IndirectlyAffected, dep)
				seenIndirect[dep.Name] = true
			}
		}
	}

	return report
}

func isAffected(node *graph.Node, lines []int) bool {
	for _, line := range lines {
		if line >= node.StartLine && line <= node.EndLine {
			return true
		}
	}
	return false
}
