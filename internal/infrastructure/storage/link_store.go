package storage

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/willf/bloom"
)

const (
	defaultExpectedLinks     = 1000000
	defaultFalsePositiveRate = 0.01
)

// LinkStore records canonical links. The bloom filter answers most
// "never seen" lookups; the prefix tree keeps the exact set.
type LinkStore struct {
	mu sync.RWMutex

	links  *PrefixTree
	filter *bloom.BloomFilter

	expected   uint
	lastUpdate time.Time
	linkCount  int64
}

// NewLinkStore sizes the bloom filter for expected links. Zero selects a
// default of one million.
func NewLinkStore(expected uint) *LinkStore {
	if expected == 0 {
		expected = defaultExpectedLinks
	}

	return &LinkStore{
		links:      NewPrefixTree(),
		filter:     bloom.NewWithEstimates(expected, defaultFalsePositiveRate),
		expected:   expected,
		lastUpdate: time.Now(),
	}
}

// Record stores link and reports whether it was new.
func (ls *LinkStore) Record(link string) bool {
	if link == "" {
		return false
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.filter.TestString(link) && ls.links.Contains(link) {
		return false
	}

	ls.links.Insert(link)
	ls.filter.AddString(link)
	ls.lastUpdate = time.Now()
	atomic.AddInt64(&ls.linkCount, 1)

	return true
}

func (ls *LinkStore) Seen(link string) bool {
	if link == "" {
		return false
	}

	ls.mu.RLock()
	defer ls.mu.RUnlock()

	if !ls.filter.TestString(link) {
		return false
	}

	return ls.links.Contains(link)
}

// HasPrefix reports whether any recorded link starts with prefix.
func (ls *LinkStore) HasPrefix(prefix string) bool {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	return ls.links.HasPrefix(prefix)
}

func (ls *LinkStore) Stats() StoreStats {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	return StoreStats{
		Links:           atomic.LoadInt64(&ls.linkCount),
		ExpectedLinks:   ls.expected,
		LastUpdate:      ls.lastUpdate,
		BloomFilterSize: ls.filter.Cap(),
		HashFunctions:   ls.filter.K(),
	}
}

func (ls *LinkStore) Clear() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.links.Clear()
	ls.filter.ClearAll()

	atomic.StoreInt64(&ls.linkCount, 0)
	ls.lastUpdate = time.Now()
}

type StoreStats struct {
	Links           int64
	ExpectedLinks   uint
	LastUpdate      time.Time
	BloomFilterSize uint
	HashFunctions   uint
}
