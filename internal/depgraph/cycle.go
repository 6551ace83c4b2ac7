package depgraph

// DFS colors. White (unvisited) is the zero value.
const (
	white = iota
	gray  // on the current traversal path
	black // fully explored
)

// FindCycle searches the import edges reachable from start and returns the
// first cycle discovered as a walk, e.g. ["a", "b", "c", "a"]. Returns nil
// when no cycle is reachable.
//
// The traversal is an explicit-stack depth-first search with three-color
// marking: a back-edge to a gray node signals the cycle. No recursion, so
// graphs with tens of thousands of nodes cannot exhaust the call stack.
func FindCycle(g Graph, start string) []string {
	type frame struct {
		node string
		next int
	}

	colors := map[string]int{start: gray}
	stack := []frame{{node: start}}
	path := []string{start}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		var imports []string
		if node, ok := g[top.node]; ok {
			imports = node.Imports
		}

		if top.next < len(imports) {
			child := imports[top.next]
			top.next++

			switch colors[child] {
			case gray:
				// Back-edge: the walk runs from the first occurrence of
				// child on the active path around to child again.
				for i, p := range path {
					if p == child {
						return append(append([]string{}, path[i:]...), child)
					}
				}
			case white:
				colors[child] = gray
				stack = append(stack, frame{node: child})
				path = append(path, child)
			}
			continue
		}

		colors[top.node] = black
		stack = stack[:len(stack)-1]
		path = path[:len(path)-1]
	}

	return nil
}
