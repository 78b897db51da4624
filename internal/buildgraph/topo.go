package buildgraph

import (
	"fmt"
	"sort"

	"github.com/monolink-labs/monolink/internal/descriptor"
)

// TopoOrder returns descriptors sorted so every package appears after its
// internal dependencies. Ties are broken by name so the order is stable.
// A dependency cycle is an error.
func TopoOrder(descs []*descriptor.Descriptor) ([]*descriptor.Descriptor, error) {
	byName := ByName(descs)

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(descs))
	var order []*descriptor.Descriptor

	names := make([]string, 0, len(descs))
	for _, d := range descs {
		names = append(names, d.Name)
	}
	sort.Strings(names)

	var visit func(name string) error
	visit = func(name string) error {
		d, ok := byName[name]
		if !ok {
			return nil
		}
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle involving %s", name)
		}
		state[name] = visiting

		deps := append([]string(nil), d.InternalDeps...)
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		state[name] = done
		order = append(order, d)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Levels groups the topological order into batches where every package's
// internal dependencies live in an earlier batch. Packages inside one
// batch are independent and safe to build concurrently.
func Levels(descs []*descriptor.Descriptor) ([][]*descriptor.Descriptor, error) {
	order, err := TopoOrder(descs)
	if err != nil {
		return nil, err
	}

	level := make(map[string]int, len(order))
	var levels [][]*descriptor.Descriptor
	byName := ByName(descs)

	for _, d := range order {
		max := 0
		for _, dep := range d.InternalDeps {
			if _, ok := byName[dep]; !ok {
				continue
			}
			if l := level[dep] + 1; l > max {
				max = l
			}
		}
		level[d.Name] = max

		for len(levels) <= max {
			levels = append(levels, nil)
		}
		levels[max] = append(levels[max], d)
	}
	return levels, nil
}
