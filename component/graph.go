package component

import (
	"sort"

	apperrors "github.com/kbukum/initkit/errors"
)

// buildLevels groups nodes with Kahn's algorithm. Every node appears in a
// later level than all of its dependencies. Names within a level are
// sorted so the result is deterministic.
func buildLevels(deps map[string][]string) ([][]string, error) {
	inDegree := make(map[string]int, len(deps))
	dependents := make(map[string][]string)

	for name := range deps {
		inDegree[name] = 0
	}
	for name := range deps {
		for _, dep := range deps[name] {
			if _, ok := deps[dep]; !ok {
				return nil, apperrors.UnknownDependency(name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue []string
	for name, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, name)
		}
	}

	var levels [][]string
	visited := 0

	for len(queue) > 0 {
		sort.Strings(queue)
		levels = append(levels, queue)
		visited += len(queue)

		var next []string
		for _, name := range queue {
			for _, d := range dependents[name] {
				inDegree[d]--
				if inDegree[d] == 0 {
					next = append(next, d)
				}
			}
		}
		queue = next
	}

	if visited != len(deps) {
		var members []string
		for name, deg := range inDegree {
			if deg > 0 {
				members = append(members, name)
			}
		}
		sort.Strings(members)
		return nil, apperrors.DependencyCycle(members)
	}

	return levels, nil
}
