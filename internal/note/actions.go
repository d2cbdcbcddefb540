package note

import "sync"

// Action is one invocable action of a note.
type Action struct {
	Key   string
	Label string
}

// Actions holds a note's actions as received: a flat sequence alternating
// key and label. The pairs are split on first use.
type Actions struct {
	flat []string

	once  sync.Once
	pairs []Action
}

// NewActions wraps a flat key, label, key, label, ... sequence. It returns
// nil when flat holds no complete pair.
func NewActions(flat []string) *Actions {
	if len(flat) < 2 {
		return nil
	}
	return &Actions{flat: flat}
}

// Pairs returns the actions in declaration order. A trailing key without a
// label is dropped.
func (a *Actions) Pairs() []Action {
	if a == nil {
		return nil
	}
	a.once.Do(func() {
		a.pairs = make([]Action, 0, len(a.flat)/2)
		for i := 0; i+1 < len(a.flat); i += 2 {
			a.pairs = append(a.pairs, Action{Key: a.flat[i], Label: a.flat[i+1]})
		}
	})
	return a.pairs
}

// Flat returns the sequence the actions were built from.
func (a *Actions) Flat() []string {
	if a == nil {
		return nil
	}
	return a.flat
}

// Len returns the number of actions.
func (a *Actions) Len() int {
	return len(a.Pairs())
}

// Label returns the label of the action with the given key.
func (a *Actions) Label(key string) (string, bool) {
	for _, p := range a.Pairs() {
		if p.Key == key {
			return p.Label, true
		}
	}
	return "", false
}

// Has reports whether an action with the given key was declared.
func (a *Actions) Has(key string) bool {
	_, ok := a.Label(key)
	return ok
}
