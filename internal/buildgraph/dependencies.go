package buildgraph

import (
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/monolink-labs/monolink/internal/descriptor"
)

// RootDeclarations carries the root-level declarations consulted when
// classifying a package's internal dependencies.
type RootDeclarations struct {
	Dependencies     map[string]string
	PeerDependencies map[string]string
	AliasNames       map[string]bool
}

// ClassifiedDep is one dependency entry destined for a generated manifest.
type ClassifiedDep struct {
	Name    string
	Version string // empty means omitted: no version could be determined
	Peer    bool
}

// Classify turns d's internal dependency names into manifest entries.
//
// A dependency becomes a peer when peerInternalOnly is active and the name
// is either declared as a peer at the root or present in the root alias
// table. Version precedence: root-declared peer version, else root-declared
// dependency version, else the referenced package's own valid semver
// version prefixed with a caret, else omitted (no guess). The result is
// sorted by name.
func Classify(d *descriptor.Descriptor, byName map[string]*descriptor.Descriptor, root RootDeclarations, peerInternalOnly bool) []ClassifiedDep {
	deps := make([]ClassifiedDep, 0, len(d.InternalDeps))
	for _, name := range d.InternalDeps {
		entry := ClassifiedDep{Name: name}

		if peerInternalOnly {
			_, declaredPeer := root.PeerDependencies[name]
			entry.Peer = declaredPeer || root.AliasNames[name]
		}

		if v, ok := root.PeerDependencies[name]; ok {
			entry.Version = v
		} else if v, ok := root.Dependencies[name]; ok {
			entry.Version = v
		} else if dep, ok := byName[name]; ok && dep.Version != "" {
			if _, err := semver.NewVersion(dep.Version); err == nil {
				entry.Version = "^" + dep.Version
			}
		}

		deps = append(deps, entry)
	}

	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps
}
