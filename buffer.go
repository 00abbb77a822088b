package logsim

import (
	"sync"
)

// RecentBuffer is a fixed-capacity ring of the most recent entries.
// Push evicts the oldest entry once full. Readers always receive copies.
type RecentBuffer struct {
	mu      sync.RWMutex
	entries []Entry
	head    int // index of the oldest entry
	size    int
}

// NewRecentBuffer creates a buffer holding at most capacity entries.
// A non-positive capacity falls back to RecentCapacity.
func NewRecentBuffer(capacity int) *RecentBuffer {
	if capacity <= 0 {
		capacity = RecentCapacity
	}
	return &RecentBuffer{entries: make([]Entry, capacity)}
}

// Push appends e, evicting the oldest entry when the buffer is full
func (b *RecentBuffer) Push(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.entries)
	if b.size < capacity {
		b.entries[(b.head+b.size)%capacity] = e
		b.size++
		return
	}
	// Full: overwrite the oldest slot and advance head
	b.entries[b.head] = e
	b.head = (b.head + 1) % capacity
}

// Tail returns a copy of the last k entries in chronological order
func (b *RecentBuffer) Tail(k int) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tail(k)
}

// Size returns the number of buffered entries
func (b *RecentBuffer) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Capacity returns the maximum number of buffered entries
func (b *RecentBuffer) Capacity() int {
	return len(b.entries)
}

// Snapshot returns the last k entries together with the total count under one lock
func (b *RecentBuffer) Snapshot(k int) ([]Entry, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tail(k), b.size
}

// tail assumes the read lock is held
func (b *RecentBuffer) tail(k int) []Entry {
	if k > b.size {
		k = b.size
	}
	if k <= 0 {
		return []Entry{}
	}

	capacity := len(b.entries)
	out := make([]Entry, k)
	start := b.head + b.size - k
	for i := 0; i < k; i++ {
		out[i] = b.entries[(start+i)%capacity]
	}
	return out
}
