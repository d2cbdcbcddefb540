package idrange

import (
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
)

func checkInvariant(t *testing.T, a *Allocator) {
	t.Helper()
	for i, r := range a.ranges {
		if r.Min == 0 || r.Min > r.Max {
			t.Fatalf("range %d = %+v is malformed", i, r)
		}
		if i > 0 && a.ranges[i-1].Max+1 >= r.Min {
			t.Fatalf("ranges %+v and %+v overlap or touch", a.ranges[i-1], r)
		}
	}
}

func TestAllocate_Sequential(t *testing.T) {
	a := New()
	for want := uint32(1); want <= 5; want++ {
		if got := a.Allocate(); got != want {
			t.Fatalf("Allocate() = %d, want %d", got, want)
		}
	}
	if got := a.Ranges(); !slices.Equal(got, []Range{{1, 5}}) {
		t.Errorf("Ranges() = %v, want [{1 5}]", got)
	}
}

func TestClaim(t *testing.T) {
	tests := []struct {
		name   string
		claims []uint32
		want   []Range
	}{
		{name: "zero is ignored", claims: []uint32{0}, want: []Range{}},
		{name: "single", claims: []uint32{7}, want: []Range{{7, 7}}},
		{name: "idempotent", claims: []uint32{7, 7, 7}, want: []Range{{7, 7}}},
		{name: "extend upwards", claims: []uint32{7, 8}, want: []Range{{7, 8}}},
		{name: "extend downwards", claims: []uint32{7, 6}, want: []Range{{6, 7}}},
		{name: "insert before", claims: []uint32{7, 3}, want: []Range{{3, 3}, {7, 7}}},
		{name: "insert after", claims: []uint32{3, 7}, want: []Range{{3, 3}, {7, 7}}},
		{name: "insert between", claims: []uint32{3, 11, 7}, want: []Range{{3, 3}, {7, 7}, {11, 11}}},
		{name: "fill gap merges", claims: []uint32{3, 5, 4}, want: []Range{{3, 5}}},
		{name: "fill gap between runs", claims: []uint32{1, 2, 3, 5, 6, 4}, want: []Range{{1, 6}}},
		{name: "inside existing", claims: []uint32{1, 2, 3, 2}, want: []Range{{1, 3}}},
		{name: "max id", claims: []uint32{MaxID, MaxID - 1}, want: []Range{{MaxID - 1, MaxID}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			for _, id := range tt.claims {
				a.Claim(id)
				checkInvariant(t, a)
			}
			got := a.Ranges()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Ranges() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllocate_SkipsClaimed(t *testing.T) {
	a := New()
	a.Claim(2)
	a.Claim(3)

	if got := a.Allocate(); got != 1 {
		t.Fatalf("Allocate() = %d, want 1", got)
	}
	if got := a.Allocate(); got != 4 {
		t.Fatalf("Allocate() = %d, want 4", got)
	}
	if got := a.Ranges(); !slices.Equal(got, []Range{{1, 4}}) {
		t.Errorf("Ranges() = %v, want [{1 4}]", got)
	}
}

func TestAllocate_ClientChosenIDsNeverReturned(t *testing.T) {
	a := New()
	a.Claim(100)
	seen := make(map[uint32]bool)
	for range 200 {
		id := a.Allocate()
		if id == 100 {
			t.Fatal("Allocate() returned client-claimed id 100")
		}
		if seen[id] {
			t.Fatalf("Allocate() returned %d twice", id)
		}
		seen[id] = true
	}
}

func TestAllocate_ResetsWhenExhausted(t *testing.T) {
	a := New()
	a.ranges = []Range{{1, MaxID - 1}}

	if got := a.Allocate(); got != MaxID {
		t.Fatalf("Allocate() = %d, want %d", got, MaxID)
	}
	if got := a.Ranges(); !slices.Equal(got, []Range{{1, MaxID}}) {
		t.Fatalf("Ranges() = %v, want whole space", got)
	}

	if got := a.Allocate(); got != 1 {
		t.Fatalf("Allocate() after exhaustion = %d, want 1", got)
	}
	if got := a.Ranges(); !slices.Equal(got, []Range{{1, 1}}) {
		t.Errorf("Ranges() after reset = %v, want [{1 1}]", got)
	}
	if got := a.Allocate(); got != 2 {
		t.Errorf("Allocate() = %d, want 2", got)
	}
}

func TestAllocate_HoleBelowLastID(t *testing.T) {
	a := New()
	a.ranges = []Range{{2, MaxID}}

	if got := a.Allocate(); got != 1 {
		t.Fatalf("Allocate() = %d, want 1", got)
	}
	// Now exhausted: next allocation resets.
	if got := a.Allocate(); got != 1 {
		t.Fatalf("Allocate() = %d, want 1 after reset", got)
	}
}

func TestClaimed(t *testing.T) {
	a := New()
	a.Claim(5)
	a.Claim(6)
	a.Claim(10)

	for _, tt := range []struct {
		id   uint32
		want bool
	}{
		{0, false}, {4, false}, {5, true}, {6, true}, {7, false}, {10, true}, {11, false},
	} {
		if got := a.Claimed(tt.id); got != tt.want {
			t.Errorf("Claimed(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestAllocator_RandomSequences(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for round := range 50 {
		a := New()
		claimed := make(map[uint32]bool)

		for range 300 {
			if r.IntN(3) == 0 {
				id := a.Allocate()
				if claimed[id] {
					t.Fatalf("round %d: Allocate() returned already claimed id %d", round, id)
				}
				// Must be the lowest free id.
				for low := uint32(1); low < id; low++ {
					if !claimed[low] {
						t.Fatalf("round %d: Allocate() = %d but %d is free", round, id, low)
					}
				}
				claimed[id] = true
			} else {
				id := uint32(r.IntN(64))
				a.Claim(id)
				if id != 0 {
					claimed[id] = true
				}
			}
			checkInvariant(t, a)
		}

		for id := uint32(1); id < 80; id++ {
			if a.Claimed(id) != claimed[id] {
				t.Fatalf("round %d: Claimed(%d) = %v, want %v", round, id, a.Claimed(id), claimed[id])
			}
		}
	}
}

func TestAllocator_Concurrent(t *testing.T) {
	a := New()
	const workers, per = 8, 250

	var wg sync.WaitGroup
	results := make([][]uint32, workers)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range per {
				results[w] = append(results[w], a.Allocate())
			}
		}()
	}
	wg.Wait()

	seen := make(map[uint32]bool)
	for _, ids := range results {
		for _, id := range ids {
			if seen[id] {
				t.Fatalf("id %d allocated twice", id)
			}
			seen[id] = true
		}
	}
	if got := a.Ranges(); !slices.Equal(got, []Range{{1, workers * per}}) {
		t.Errorf("Ranges() = %v, want [{1 %d}]", got, workers*per)
	}
}
