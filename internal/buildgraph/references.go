package buildgraph

import (
	"sort"

	"github.com/monolink-labs/monolink/internal/descriptor"
)

// Reference is one project-reference edge in a package's build config,
// pointing at the referenced package's directory.
type Reference struct {
	Path string `json:"path"`
}

// References maps each internal dependency name of d to a reference at the
// dependency's destination directory. Names without a matching descriptor
// are skipped; the result is sorted by path.
func References(d *descriptor.Descriptor, byName map[string]*descriptor.Descriptor) []Reference {
	refs := make([]Reference, 0, len(d.InternalDeps))
	for _, name := range d.InternalDeps {
		dep, ok := byName[name]
		if !ok {
			continue
		}
		refs = append(refs, Reference{Path: dep.Destination})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })
	return refs
}

// ByName indexes descriptors by resolved package name.
func ByName(descs []*descriptor.Descriptor) map[string]*descriptor.Descriptor {
	byName := make(map[string]*descriptor.Descriptor, len(descs))
	for _, d := range descs {
		byName[d.Name] = d
	}
	return byName
}
