package buffer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics counts buffer operations, it is always collected.
type Statistics struct {
	writes atomic.Int64
	reads  atomic.Int64
	peeks  atomic.Int64
	drops  atomic.Int64

	mu          sync.RWMutex
	startTime   time.Time
	currentSize int64
	maxSize     int64
}

func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

func (s *Statistics) Write() {
	s.writes.Add(1)
}

func (s *Statistics) Read() {
	s.reads.Add(1)
}

func (s *Statistics) Peek() {
	s.peeks.Add(1)
}

func (s *Statistics) Drop() {
	s.drops.Add(1)
}

// UpdateSize records the current element count and tracks the high water mark.
func (s *Statistics) UpdateSize(size int) {
	s.mu.Lock()
	s.currentSize = int64(size)
	if s.currentSize > s.maxSize {
		s.maxSize = s.currentSize
	}
	s.mu.Unlock()
}

func (s *Statistics) Writes() int64 {
	return s.writes.Load()
}

func (s *Statistics) Reads() int64 {
	return s.reads.Load()
}

func (s *Statistics) Peeks() int64 {
	return s.peeks.Load()
}

func (s *Statistics) Drops() int64 {
	return s.drops.Load()
}

func (s *Statistics) CurrentSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSize
}

func (s *Statistics) MaxSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxSize
}

// DropRate is the share of writes that evicted an element, between 0 and 1.
func (s *Statistics) DropRate() float64 {
	writes := s.Writes()
	if writes == 0 {
		return 0
	}
	return float64(s.Drops()) / float64(writes)
}

func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

func (s *Statistics) Reset() {
	s.writes.Store(0)
	s.reads.Store(0)
	s.peeks.Store(0)
	s.drops.Store(0)

	s.mu.Lock()
	s.startTime = time.Now()
	s.currentSize = 0
	s.maxSize = 0
	s.mu.Unlock()
}

type StatsSummary struct {
	Writes      int64         `json:"writes"`
	Reads       int64         `json:"reads"`
	Peeks       int64         `json:"peeks"`
	Drops       int64         `json:"drops"`
	CurrentSize int64         `json:"current_size"`
	MaxSize     int64         `json:"max_size"`
	DropRate    float64       `json:"drop_rate"`
	Uptime      time.Duration `json:"uptime"`
}

func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Writes:      s.Writes(),
		Reads:       s.Reads(),
		Peeks:       s.Peeks(),
		Drops:       s.Drops(),
		CurrentSize: s.CurrentSize(),
		MaxSize:     s.MaxSize(),
		DropRate:    s.DropRate(),
		Uptime:      s.Uptime(),
	}
}
