// Package render turns payloads into markup and writes it into a page region.
package render

import "sync"

// DefaultRegionID is the element id the widget renders into
const DefaultRegionID = "app"

// Region is the page element the widget owns. Its content is only ever
// replaced wholesale.
type Region struct {
	ID string

	mu   sync.RWMutex
	html string
}

// NewRegion creates an empty region with the given element id
func NewRegion(id string) *Region {
	if id == "" {
		id = DefaultRegionID
	}
	return &Region{ID: id}
}

// Replace swaps the region content for html
func (r *Region) Replace(html string) {
	r.mu.Lock()
	r.html = html
	r.mu.Unlock()
}

// HTML returns the current content
func (r *Region) HTML() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.html
}
