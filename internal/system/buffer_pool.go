package system

import (
	"image"
	"sync"
)

// frameBufferPool recycles *image.RGBA frame buffers keyed by their
// rectangle, so the compositor's per-frame worker pool doesn't allocate and
// discard a full-resolution RGBA buffer for every single frame of a long
// recording. One sync.Pool per distinct size: the compositor only ever
// requests one rectangle (the output canvas), so the map stays small for
// the life of a job.
type frameBufferPool struct {
	sizes map[string]*sync.Pool
	mu    sync.RWMutex
}

var frameBuffers = &frameBufferPool{
	sizes: make(map[string]*sync.Pool),
}

// GetImage returns a buffer sized for rect, reused from the pool if one of
// that exact size is idle, or freshly allocated otherwise.
func GetImage(rect image.Rectangle) *image.RGBA {
	return frameBuffers.get(rect)
}

// PutImage returns img to the pool for reuse by a later GetImage call of
// the same size. Callers must not touch img afterward.
func PutImage(img *image.RGBA) {
	frameBuffers.put(img)
}

func (p *frameBufferPool) get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.sizes[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.sizes[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.sizes[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *frameBufferPool) put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.sizes[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
