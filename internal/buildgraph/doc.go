// Package buildgraph turns internal dependency edges into ordered project
// references, dependency/peer classification for generated manifests, and
// a topological build order. All outputs are sorted before being persisted
// so generated artifacts diff cleanly regardless of discovery order.
package buildgraph
