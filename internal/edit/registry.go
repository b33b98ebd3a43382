package edit

// RegistryKind names one of the three clip registries.
type RegistryKind string

const (
	RegistryMedia    RegistryKind = "video_image"
	RegistrySubtitle RegistryKind = "subtitle"
	RegistryText     RegistryKind = "text"
)

// UpsertOutcome describes what Upsert did.
type UpsertOutcome int

const (
	// Inserted means the name was new and the clip was appended.
	Inserted UpsertOutcome = iota
	// Duplicate means the name existed with identical timing; nothing changed.
	Duplicate
	// Retimed means the name existed with different timing; only start and length were updated.
	Retimed
)

// Direction selects a reorder direction.
type Direction string

const (
	// Forward moves an entry one layer toward the viewer (one index earlier).
	Forward Direction = "forward"
	// Backward moves an entry one layer away from the viewer (one index later).
	Backward Direction = "backward"
)

// ReorderOutcome describes what Reorder did.
type ReorderOutcome int

const (
	Moved ReorderOutcome = iota
	AtBoundary
	Missing
)

// Entry pairs a registry name with its clip.
type Entry struct {
	Name string
	Clip *Clip
}

// Registry is a name-keyed, insertion-ordered collection of clips.
type Registry struct {
	kind  RegistryKind
	order []string
	clips map[string]*Clip
}

// NewRegistry returns an empty registry.
func NewRegistry(kind RegistryKind) *Registry {
	return &Registry{kind: kind, clips: make(map[string]*Clip)}
}

// Kind reports which registry this is.
func (r *Registry) Kind() RegistryKind { return r.kind }

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.order) }

// Get returns the clip stored under name, or nil.
func (r *Registry) Get(name string) *Clip {
	return r.clips[name]
}

// Lookup resolves ref by key first, then by the current text of a title clip.
// It returns the key of the matched entry.
func (r *Registry) Lookup(ref string) (string, *Clip) {
	if clip, ok := r.clips[ref]; ok {
		return ref, clip
	}
	for _, name := range r.order {
		if title, ok := r.clips[name].Asset.(*TitleAsset); ok && title.Text == ref {
			return name, r.clips[name]
		}
	}
	return "", nil
}

// Upsert stores clip under name. An existing entry with identical timing is left
// untouched; one with different timing only receives the new start and length,
// keeping every other edit made to it.
func (r *Registry) Upsert(name string, clip *Clip) UpsertOutcome {
	existing, ok := r.clips[name]
	if !ok {
		r.order = append(r.order, name)
		r.clips[name] = clip
		return Inserted
	}
	if existing.SameTiming(clip.Start, clip.Length) {
		return Duplicate
	}
	existing.Start, existing.Length = clip.Start, clip.Length
	return Retimed
}

// Reorder swaps the named entry with its neighbour in the given direction.
func (r *Registry) Reorder(name string, dir Direction) ReorderOutcome {
	idx := r.index(name)
	if idx < 0 {
		return Missing
	}
	target := idx - 1
	if dir == Backward {
		target = idx + 1
	}
	if target < 0 || target >= len(r.order) {
		return AtBoundary
	}
	r.order[idx], r.order[target] = r.order[target], r.order[idx]
	return Moved
}

// Names returns the keys in order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Entries returns the entries in order. The clips are shared, not copied.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Entry{Name: name, Clip: r.clips[name]})
	}
	return out
}

// Clone returns a deep copy of the registry.
func (r *Registry) Clone() *Registry {
	out := NewRegistry(r.kind)
	for _, name := range r.order {
		out.order = append(out.order, name)
		out.clips[name] = r.clips[name].Clone()
	}
	return out
}

func (r *Registry) index(name string) int {
	for i, candidate := range r.order {
		if candidate == name {
			return i
		}
	}
	return -1
}
