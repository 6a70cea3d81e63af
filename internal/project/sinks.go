package project

import (
	"sync"

	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/storage"
)

// URLSink keeps the current shareable URL of the project.
type URLSink struct {
	mu      sync.RWMutex
	base    string
	index   func() *catalog.Index
	current string
	writes  int
}

// NewURLSink creates a sink rendering URLs below base. index supplies the
// catalog used to shorten extension ids; it may return nil.
func NewURLSink(base string, index func() *catalog.Index) *URLSink {
	return &URLSink{base: base, index: index}
}

func (u *URLSink) Write(p *models.ProjectDefinition) error {
	var idx *catalog.Index
	if u.index != nil {
		idx = u.index()
	}
	rendered := URL(u.base, p, idx)

	u.mu.Lock()
	defer u.mu.Unlock()
	u.current = rendered
	u.writes++
	return nil
}

// Set replaces the URL without counting a write, e.g. for the initial state.
func (u *URLSink) Set(p *models.ProjectDefinition) {
	var idx *catalog.Index
	if u.index != nil {
		idx = u.index()
	}
	rendered := URL(u.base, p, idx)

	u.mu.Lock()
	defer u.mu.Unlock()
	u.current = rendered
}

// Current returns the last written URL.
func (u *URLSink) Current() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.current
}

// Writes returns how many times the URL was written.
func (u *URLSink) Writes() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.writes
}

// StoreSink remembers every settled project in a Store.
type StoreSink struct {
	store storage.Store
}

func NewStoreSink(store storage.Store) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Write(p *models.ProjectDefinition) error {
	return SaveStored(s.store, p)
}
