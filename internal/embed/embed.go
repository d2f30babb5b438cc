// Package embed tracks third-party head assets (widget scripts and
// stylesheets) that page components need while they are rendered. Each
// component acquires a Handle; an asset stays on the page until the last
// handle that needs it is released.
package embed

import (
	"html/template"
	"strings"
	"sync"
)

// Kind is the type of head element an asset renders as.
type Kind string

const (
	Script     Kind = "script"
	Stylesheet Kind = "stylesheet"
)

// Asset is one external script or stylesheet.
type Asset struct {
	Kind Kind
	URL  string
}

type entry struct {
	asset Asset
	refs  int
}

// Document is the set of assets currently mounted on a page.
type Document struct {
	mu      sync.Mutex
	entries []*entry
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Handle is a scoped claim on a set of assets.
type Handle struct {
	doc    *Document
	assets []Asset
	once   sync.Once
}

// Load mounts assets that are not already present and returns a handle that
// keeps them mounted until released.
func (d *Document) Load(assets ...Asset) *Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, a := range assets {
		if e := d.find(a); e != nil {
			e.refs++
			continue
		}
		d.entries = append(d.entries, &entry{asset: a, refs: 1})
	}
	return &Handle{doc: d, assets: append([]Asset(nil), assets...)}
}

// Release drops the handle's claim. Releasing twice is a no-op.
func (h *Handle) Release() {
	h.once.Do(func() {
		h.doc.release(h.assets)
	})
}

func (d *Document) release(assets []Asset) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, a := range assets {
		e := d.find(a)
		if e == nil {
			continue
		}
		e.refs--
		if e.refs > 0 {
			continue
		}
		for i, cur := range d.entries {
			if cur == e {
				d.entries = append(d.entries[:i], d.entries[i+1:]...)
				break
			}
		}
	}
}

func (d *Document) find(a Asset) *entry {
	for _, e := range d.entries {
		if e.asset == a {
			return e
		}
	}
	return nil
}

// Mounted reports whether a is currently on the page.
func (d *Document) Mounted(a Asset) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.find(a) != nil
}

// Refs returns the number of live handles that hold a.
func (d *Document) Refs(a Asset) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e := d.find(a); e != nil {
		return e.refs
	}
	return 0
}

// Assets lists mounted assets in the order they were first acquired.
func (d *Document) Assets() []Asset {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Asset, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e.asset)
	}
	return out
}

// Tags renders the mounted assets as head elements.
func (d *Document) Tags() template.HTML {
	var b strings.Builder
	for _, a := range d.Assets() {
		url := template.HTMLEscapeString(a.URL)
		switch a.Kind {
		case Stylesheet:
			b.WriteString(`<link rel="stylesheet" href="` + url + `">`)
		default:
			b.WriteString(`<script async src="` + url + `"></script>`)
		}
		b.WriteByte('\n')
	}
	return template.HTML(b.String())
}
