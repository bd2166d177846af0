package analysis

import "sort"

// StronglyConnectedComponents runs Tarjan's algorithm over one domain's
// dependency graph and returns its components. Every register appears in
// exactly one component. A component is feedback iff it has more than one
// member; a singleton with a self-edge stays unflagged.
//
// The traversal uses an explicit frame stack instead of call recursion, so
// graph depth is bounded by memory rather than goroutine stack limits.
// Roots are visited in register-processing order and successor slices are
// already ordered, so output order is deterministic. O(|V|+|E|).
func StronglyConnectedComponents(g *Graph) []Component {
	index := make(map[string]int, len(g.Registers))
	lowlink := make(map[string]int, len(g.Registers))
	onStack := make(map[string]bool, len(g.Registers))
	var stack []string
	next := 0

	var comps []Component

	// One frame per node on the DFS path; succIdx resumes the successor
	// scan when the frame is revisited after a child completes.
	type frame struct {
		node    string
		succIdx int
	}

	visit := func(n string) {
		index[n] = next
		lowlink[n] = next
		next++
		stack = append(stack, n)
		onStack[n] = true
	}

	for _, root := range g.Registers {
		if _, seen := index[root]; seen {
			continue
		}
		visit(root)
		frames := []frame{{node: root}}

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			node := f.node

			if f.succIdx < len(g.Succ[node]) {
				succ := g.Succ[node][f.succIdx]
				f.succIdx++
				if _, seen := index[succ]; !seen {
					visit(succ)
					frames = append(frames, frame{node: succ})
				} else if onStack[succ] && index[succ] < lowlink[node] {
					lowlink[node] = index[succ]
				}
				continue
			}

			// Node exhausted: fold its lowlink into the parent and
			// pop a component if it is a root.
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].node
				if lowlink[node] < lowlink[parent] {
					lowlink[parent] = lowlink[node]
				}
			}
			if lowlink[node] == index[node] {
				var members []string
				for {
					top := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[top] = false
					members = append(members, top)
					if top == node {
						break
					}
				}
				sort.Strings(members)
				comps = append(comps, Component{
					Members:  members,
					Feedback: len(members) > 1,
				})
			}
		}
	}
	return comps
}
