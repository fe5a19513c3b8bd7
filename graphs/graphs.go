// Copyright 2018 The Jadep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graphs provides functions related to graphs, used by the binder to
// walk and validate the supertype/interface edges between bound classes.
package graphs

// DFS runs a DFS on the provided graph.
// f is called when a node is visited.
func DFS(graph map[string][]string, startingNode string, f func(node string)) {
	visited := make(map[string]bool)
	var visit func(u string)
	visit = func(u string) {
		if _, ok := visited[u]; ok {
			return
		}
		visited[u] = true
		f(u)

		for _, v := range graph[u] {
			visit(v)
		}
	}

	visit(startingNode)
}

// FindCycle walks the graph depth-first from startingNode and returns the
// first back-edge it finds, expressed as the cycle itself: the path from the
// node the back-edge points at around to that node again (inclusive of the
// repeated node at both ends). startingNode is part of the result only if it
// lies on the cycle. Returns nil if no cycle is reachable from startingNode.
//
// Used by the binder's Header phase to detect superclass/interface cycles:
// the caller passes a graph whose edges are "class -> direct superclass and
// interfaces".
func FindCycle(graph map[string][]string, startingNode string) []string {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make(map[string]int)
	var path []string
	var cycle []string

	var visit func(u string) bool
	visit = func(u string) bool {
		state[u] = onStack
		path = append(path, u)
		for _, v := range graph[u] {
			switch state[v] {
			case onStack:
				// Found a back-edge to v: the cycle is the suffix of path from v onward, plus v again.
				for i, n := range path {
					if n == v {
						cycle = append(append([]string{}, path[i:]...), v)
						return true
					}
				}
			case unvisited:
				if visit(v) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		state[u] = done
		return false
	}

	visit(startingNode)
	return cycle
}
