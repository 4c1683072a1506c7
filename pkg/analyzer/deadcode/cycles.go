package deadcode

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// DetectCycles finds circular import chains using Tarjan's strongly
// connected components. Cycles do not affect reachability; they are
// reported as informational findings. Each cycle's members are sorted
// and the list is ordered by first member for deterministic output.
func DetectCycles(g *FileGraph) [][]string {
	if len(g.Files) == 0 {
		return nil
	}

	directed := simple.NewDirectedGraph()
	for i := range g.Files {
		directed.AddNode(simple.Node(i))
	}
	for from, neighbors := range g.adjacency {
		for _, to := range neighbors {
			// gonum simple graphs reject self-loops.
			if from != to {
				directed.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
			}
		}
	}

	sccs := topo.TarjanSCC(directed)

	var cycles [][]string
	for _, scc := range sccs {
		if len(scc) <= 1 {
			continue
		}
		members := make([]string, 0, len(scc))
		for _, node := range scc {
			members = append(members, g.Files[node.ID()])
		}
		sort.Strings(members)
		cycles = append(cycles, members)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })

	return cycles
}
