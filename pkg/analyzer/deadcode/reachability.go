package deadcode

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/sweepr/sweepr/pkg/models"
)

// ReachabilitySet tracks reachable file indexes with a Roaring bitmap.
// Traversal is sequential, so no locking is needed.
type ReachabilitySet struct {
	bitmap *roaring.Bitmap
}

// NewReachabilitySet creates an empty set.
func NewReachabilitySet() *ReachabilitySet {
	return &ReachabilitySet{bitmap: roaring.New()}
}

// Set marks a file as reachable.
func (r *ReachabilitySet) Set(index int) {
	r.bitmap.Add(uint32(index))
}

// IsSet checks whether a file is reachable.
func (r *ReachabilitySet) IsSet(index int) bool {
	return r.bitmap.Contains(uint32(index))
}

// Count returns the number of reachable files.
func (r *ReachabilitySet) Count() uint64 {
	return r.bitmap.GetCardinality()
}

// Indexes returns the reachable file indexes in ascending order.
func (r *ReachabilitySet) Indexes() []int {
	out := make([]int, 0, r.bitmap.GetCardinality())
	it := r.bitmap.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Reachable computes the set of files reachable from the entry indexes
// with a breadth-first traversal. Unresolved references are placeholder
// targets and never extend the frontier.
func Reachable(g *FileGraph, entries []int) *ReachabilitySet {
	reach := NewReachabilitySet()

	queue := make([]int, 0, len(entries)*2)
	for _, e := range entries {
		if !reach.IsSet(e) {
			reach.Set(e)
			queue = append(queue, e)
		}
	}

	// Index-based queue avoids O(n) reslicing.
	head := 0
	for head < len(queue) {
		current := queue[head]
		head++

		for _, next := range g.Neighbors(current) {
			if !reach.IsSet(next) {
				reach.Set(next)
				queue = append(queue, next)
			}
		}
	}

	return reach
}

// symbolKey identifies one export of one file.
type symbolKey struct {
	file int
	name string
}

// usage is the fixed-point symbol usage computation. The visited set
// doubles as the result: a key is marked before its consequences are
// followed, so re-export cycles terminate.
type usage struct {
	files     *FileGraph
	symbols   *SymbolGraph
	typeUsage bool
	used      map[symbolKey]bool
	allMarked *roaring.Bitmap
}

// ComputeUsage determines which exports are used. Seeds are the import
// bindings of reachable files plus the full export surface of every
// entry file; usage then propagates through re-export chains. Files
// outside the reachable set never confer usage.
func ComputeUsage(g *FileGraph, s *SymbolGraph, reach *ReachabilitySet, entries []int, typeOnlyCounts bool) map[symbolKey]bool {
	u := &usage{
		files:     g,
		symbols:   s,
		typeUsage: typeOnlyCounts,
		used:      make(map[symbolKey]bool),
		allMarked: roaring.New(),
	}

	for _, e := range entries {
		u.markAll(e)
	}

	for _, f := range reach.Indexes() {
		tab := s.table(f)
		if tab == nil {
			continue
		}
		for _, b := range tab.imports {
			if b.symbol.TypeOnly && !u.typeUsage {
				continue
			}
			to, ok := g.Index(b.target.Path)
			if !ok {
				continue
			}
			if b.symbol.Kind == models.ImportNamespace || b.symbol.Name == "*" {
				u.markAll(to)
				continue
			}
			u.markUsed(to, b.symbol.Name)
		}
	}

	return u.used
}

// markUsed marks one export used and follows its re-export source.
// Names not exported directly fan out through export * chains; the
// default export never forwards through a star.
func (u *usage) markUsed(file int, name string) {
	key := symbolKey{file: file, name: name}
	if u.used[key] {
		return
	}
	u.used[key] = true

	tab := u.symbols.table(file)
	if tab == nil {
		return
	}

	if node, ok := tab.exports[name]; ok {
		if node.source.Kind != TargetFile {
			return
		}
		src, ok := u.files.Index(node.source.Path)
		if !ok {
			return
		}
		if node.rec.Local == "*" {
			u.markAll(src)
			return
		}
		u.markUsed(src, node.rec.Local)
		return
	}

	if name == "default" {
		return
	}
	for _, star := range tab.stars {
		if star.Kind != TargetFile {
			continue
		}
		if src, ok := u.files.Index(star.Path); ok {
			u.markUsed(src, name)
		}
	}
}

// markAll marks the entire export surface of a file used, following
// export * fan-out. The allMarked bitmap terminates star cycles.
func (u *usage) markAll(file int) {
	if u.allMarked.Contains(uint32(file)) {
		return
	}
	u.allMarked.Add(uint32(file))

	tab := u.symbols.table(file)
	if tab == nil {
		return
	}
	for name := range tab.exports {
		u.markUsed(file, name)
	}
	for _, star := range tab.stars {
		if star.Kind != TargetFile {
			continue
		}
		if src, ok := u.files.Index(star.Path); ok {
			u.markAll(src)
		}
	}
}
