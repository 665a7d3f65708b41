package pbwt

// Manager holds one State per PBWT-tracked FORMAT key code, created
// lazily on first use. It is owned by a single reader or writer instance
// and is never shared across threads, matching the single-threaded
// cooperative model the states live in.
type Manager struct {
	states map[int32]*State
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{states: make(map[int32]*State)}
}

// StateFor returns the State for formatKey, creating it at identity over l
// haplotypes if it doesn't exist yet.
func (m *Manager) StateFor(formatKey int32, l int) *State {
	s, ok := m.states[formatKey]
	if !ok {
		s = NewState(l)
		m.states[formatKey] = s
	}
	return s
}

// ResetAll reinitializes every tracked key's permutation to identity, at
// its last-seen length. Called on the reset bit of a frame's first
// record.
func (m *Manager) ResetAll() {
	for _, s := range m.states {
		s.Reset(len(s.perm))
	}
}

// Tracked reports whether formatKey has a registered PBWT state.
func (m *Manager) Tracked(formatKey int32) bool {
	_, ok := m.states[formatKey]
	return ok
}

// Register declares formatKey as PBWT-tracked with an initial haplotype
// count of l, without requiring an Encode/Decode call first. Used when
// header parsing discovers a _PBWT_SORT_* descriptor.
func (m *Manager) Register(formatKey int32, l int) {
	if _, ok := m.states[formatKey]; !ok {
		m.states[formatKey] = NewState(l)
	}
}
