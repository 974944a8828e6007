package core

import (
	"path/filepath"
	"sync"

	"voltron/internal/ports"
	"voltron/internal/types"
)

type cachedDescriptor struct {
	desc  types.PackageDescriptor
	found bool
	err   error
}

// DescriptorCache memoizes descriptor reads by absolute directory. One
// cache belongs to one pipeline run and is safe for concurrent use.
type DescriptorCache struct {
	next    ports.PackageDescriptorPort
	mu      sync.Mutex
	entries map[string]cachedDescriptor
}

func NewDescriptorCache(next ports.PackageDescriptorPort) *DescriptorCache {
	return &DescriptorCache{next: next, entries: map[string]cachedDescriptor{}}
}

func (c *DescriptorCache) ReadDescriptor(dir string) (types.PackageDescriptor, bool, error) {
	key := dir
	if abs, err := filepath.Abs(dir); err == nil {
		key = abs
	}
	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return entry.desc, entry.found, entry.err
	}
	desc, found, err := c.next.ReadDescriptor(dir)
	c.mu.Lock()
	c.entries[key] = cachedDescriptor{desc: desc, found: found, err: err}
	c.mu.Unlock()
	return desc, found, err
}

var _ ports.PackageDescriptorPort = (*DescriptorCache)(nil)
