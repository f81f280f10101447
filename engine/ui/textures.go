package ui

import "github.com/hubastard/grove-overlay/engine/paint"

// TextureManager hands out ephemeral texture ids and queues the changes the
// renderer applies at the next frame.
type TextureManager struct {
	next    uint64
	live    map[paint.TextureID]struct{}
	pending paint.TexturesDelta
}

func NewTextureManager() *TextureManager {
	return &TextureManager{next: 1, live: make(map[paint.TextureID]struct{})}
}

// Alloc registers img under a fresh ephemeral id.
func (m *TextureManager) Alloc(img paint.Image, filter paint.Filter) paint.TextureID {
	id := paint.TextureID{Namespace: paint.Ephemeral, ID: m.next}
	m.next++
	m.Set(id, paint.Full(img, filter))
	return id
}

// Set queues a whole or partial update of id.
func (m *TextureManager) Set(id paint.TextureID, d paint.ImageDelta) {
	if d.IsWhole() {
		m.live[id] = struct{}{}
	}
	m.pending.Set = append(m.pending.Set, paint.TextureSet{ID: id, Delta: d})
}

// Free queues the release of id. Unknown ids are ignored.
func (m *TextureManager) Free(id paint.TextureID) {
	if _, ok := m.live[id]; !ok {
		return
	}
	delete(m.live, id)
	m.pending.Free = append(m.pending.Free, id)
}

// Take returns the queued changes and clears the queue.
func (m *TextureManager) Take() paint.TexturesDelta {
	d := m.pending
	m.pending = paint.TexturesDelta{}
	return d
}
