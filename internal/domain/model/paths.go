// Package model contains domain models passed between layers.
package model

import "sort"

// NamedPath identifies one physical controller. MinimalPath is the identity key.
type NamedPath struct {
	FullPath      string  `json:"full_path"`       // by-path symlink
	MinimalPath   string  `json:"minimal_path"`    // "{port-chain}.{multi-controller-index}"
	RootEventPath string  `json:"root_event_path"` // kernel event node the symlink pointed at
	CommonName    *string `json:"common_name"`     // set only by binding
}

// Name returns the bound common name, or "" when unbound.
func (p NamedPath) Name() string {
	if p.CommonName == nil {
		return ""
	}
	return *p.CommonName
}

// Bound reports whether the path carries a common name.
func (p NamedPath) Bound() bool {
	return p.CommonName != nil
}

// EventPathLookup maps a kernel event device path to its minimal path.
// It is rebuilt on every hotplug event and never persisted.
type EventPathLookup map[string]string

// MinimalPathLookup maps a minimal path to its record. It is the single
// source of truth for which controller carries which name.
type MinimalPathLookup map[string]*NamedPath

// NewMinimalPathLookup indexes paths by minimal path. Later duplicates win.
func NewMinimalPathLookup(paths []NamedPath) MinimalPathLookup {
	mpl := make(MinimalPathLookup, len(paths))
	for i := range paths {
		np := paths[i]
		mpl[np.MinimalPath] = &np
	}
	return mpl
}

// NewEventPathLookup indexes paths by root event path.
func NewEventPathLookup(paths []NamedPath) EventPathLookup {
	epl := make(EventPathLookup, len(paths))
	for _, np := range paths {
		epl[np.RootEventPath] = np.MinimalPath
	}
	return epl
}

// Resolve follows a kernel device path to its record.
func (m MinimalPathLookup) Resolve(epl EventPathLookup, devPath string) (*NamedPath, bool) {
	minimal, ok := epl[devPath]
	if !ok {
		return nil, false
	}
	np, ok := m[minimal]
	return np, ok
}

// Merge inserts discovered paths whose minimal path is absent. Existing
// records, including their names, are kept. Returns the number inserted.
func (m MinimalPathLookup) Merge(discovered []NamedPath) int {
	added := 0
	for i := range discovered {
		np := discovered[i]
		if _, ok := m[np.MinimalPath]; ok {
			continue
		}
		m[np.MinimalPath] = &np
		added++
	}
	return added
}

// Bind sets name on minimalPath and clears it from every other record.
// Returns the number of records the name was taken from.
func (m MinimalPathLookup) Bind(minimalPath, name string) (stolen int, ok bool) {
	target, ok := m[minimalPath]
	if !ok {
		return 0, false
	}
	n := name
	target.CommonName = &n
	for key, np := range m {
		if key == minimalPath || np.CommonName == nil {
			continue
		}
		if *np.CommonName == name {
			np.CommonName = nil
			stolen++
		}
	}
	return stolen, true
}

// HasName reports whether any record carries name.
func (m MinimalPathLookup) HasName(name string) bool {
	for _, np := range m {
		if np.CommonName != nil && *np.CommonName == name {
			return true
		}
	}
	return false
}

// BoundCount returns the number of named records.
func (m MinimalPathLookup) BoundCount() int {
	n := 0
	for _, np := range m {
		if np.Bound() {
			n++
		}
	}
	return n
}

// Sorted returns copies of all records ordered by minimal path.
func (m MinimalPathLookup) Sorted() []NamedPath {
	out := make([]NamedPath, 0, len(m))
	for _, np := range m {
		cp := *np
		if np.CommonName != nil {
			name := *np.CommonName
			cp.CommonName = &name
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinimalPath < out[j].MinimalPath })
	return out
}

// Names maps minimal path to common name for bound records.
func (m MinimalPathLookup) Names() map[string]string {
	out := make(map[string]string, len(m))
	for key, np := range m {
		if np.CommonName != nil {
			out[key] = *np.CommonName
		}
	}
	return out
}
