// Package idrange hands out notification IDs.
//
// "Each notification displayed is allocated a unique ID by the server. This
// is unique within the session. While the notification server is running,
// the ID will not be recycled unless the capacity of a uint32 is exceeded."
//
// Clients may also pick their own ID through replaces_id. Such IDs are
// claimed so that they are never handed out again until the whole uint32
// space has been used.
package idrange

import (
	"math"
	"sync"
)

// MaxID is the largest valid notification ID.
const MaxID uint32 = math.MaxUint32

// Range is a closed interval of claimed IDs.
type Range struct {
	Min uint32
	Max uint32
}

// Allocator tracks claimed IDs as sorted, disjoint, non-adjacent ranges.
// The zero value is ready to use and safe for concurrent use.
type Allocator struct {
	mu     sync.Mutex
	ranges []Range
}

// New returns an empty allocator.
func New() *Allocator {
	return &Allocator{}
}

// Claim marks id as used. Claiming 0 or an already claimed id is a no-op.
func (a *Allocator) Claim(id uint32) {
	if id == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.claimLocked(id)
}

// Allocate claims and returns the lowest unclaimed ID. Once every ID in
// [1, MaxID] has been claimed, all claims are dropped and 1 is returned.
func (a *Allocator) Allocate() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.ranges) == 0 || a.ranges[0].Min > 1 {
		a.claimLocked(1)
		return 1
	}
	if a.ranges[0].Max == MaxID {
		a.ranges = a.ranges[:0]
		a.claimLocked(1)
		return 1
	}
	id := a.ranges[0].Max + 1
	a.claimLocked(id)
	return id
}

// Ranges returns a copy of the claimed ranges in ascending order.
func (a *Allocator) Ranges() []Range {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Range, len(a.ranges))
	copy(out, a.ranges)
	return out
}

// Len returns the number of disjoint ranges.
func (a *Allocator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.ranges)
}

// Claimed reports whether id is currently claimed.
func (a *Allocator) Claimed(id uint32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.search(id)
	return i < len(a.ranges) && a.ranges[i].Min <= id
}

// search returns the index of the first range whose Max is >= id.
func (a *Allocator) search(id uint32) int {
	lo, hi := 0, len(a.ranges)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if a.ranges[mid].Max < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (a *Allocator) claimLocked(id uint32) {
	i := a.search(id)

	// ranges[i-1].Max < id <= ranges[i].Max
	if i < len(a.ranges) && a.ranges[i].Min <= id {
		return
	}

	joinPrev := i > 0 && a.ranges[i-1].Max+1 == id
	joinNext := i < len(a.ranges) && a.ranges[i].Min-1 == id

	switch {
	case joinPrev && joinNext:
		a.ranges[i-1].Max = a.ranges[i].Max
		a.ranges = append(a.ranges[:i], a.ranges[i+1:]...)
	case joinPrev:
		a.ranges[i-1].Max = id
	case joinNext:
		a.ranges[i].Min = id
	default:
		a.ranges = append(a.ranges, Range{})
		copy(a.ranges[i+1:], a.ranges[i:])
		a.ranges[i] = Range{Min: id, Max: id}
	}
}
