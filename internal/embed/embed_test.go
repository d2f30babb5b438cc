package embed

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	widgetJS  = Asset{Kind: Script, URL: "https://assets.calendly.com/assets/external/widget.js"}
	widgetCSS = Asset{Kind: Stylesheet, URL: "https://assets.calendly.com/assets/external/widget.css"}
)

func TestReleaseRemovesAssets(t *testing.T) {
	doc := NewDocument()
	h := doc.Load(widgetJS, widgetCSS)
	assert.True(t, doc.Mounted(widgetJS))
	assert.True(t, doc.Mounted(widgetCSS))

	h.Release()
	assert.False(t, doc.Mounted(widgetJS))
	assert.False(t, doc.Mounted(widgetCSS))
	assert.Empty(t, doc.Tags())
}

func TestReleaseIsIdempotent(t *testing.T) {
	doc := NewDocument()
	a := doc.Load(widgetJS)
	b := doc.Load(widgetJS)

	a.Release()
	a.Release()
	assert.True(t, doc.Mounted(widgetJS))
	assert.Equal(t, 1, doc.Refs(widgetJS))

	b.Release()
	assert.False(t, doc.Mounted(widgetJS))
}

func TestSharedAssetsSurviveUntilLastRelease(t *testing.T) {
	doc := NewDocument()
	first := doc.Load(widgetJS, widgetCSS)
	second := doc.Load(widgetJS, widgetCSS)
	assert.Len(t, doc.Assets(), 2)

	first.Release()
	assert.Equal(t, []Asset{widgetJS, widgetCSS}, doc.Assets())
	second.Release()
	assert.Empty(t, doc.Assets())
}

func TestTagsRenderInAcquisitionOrder(t *testing.T) {
	doc := NewDocument()
	h := doc.Load(widgetCSS, widgetJS)
	defer h.Release()

	want := `<link rel="stylesheet" href="https://assets.calendly.com/assets/external/widget.css">` + "\n" +
		`<script async src="https://assets.calendly.com/assets/external/widget.js"></script>` + "\n"
	assert.Equal(t, want, string(doc.Tags()))
}

func TestConcurrentHandles(t *testing.T) {
	doc := NewDocument()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := doc.Load(widgetJS, widgetCSS)
			h.Release()
			h.Release()
		}()
	}
	wg.Wait()
	assert.Empty(t, doc.Assets())
}
