package server

// patchHistory is a ring buffer of encoded patch messages, kept so a
// client that missed some can catch up. It is owned by the session's
// read goroutine.
type patchHistory struct {
	entries  []historyEntry
	head     int
	count    int
	capacity int
}

type historyEntry struct {
	seq   uint64
	frame []byte
}

func newPatchHistory(capacity int) *patchHistory {
	if capacity <= 0 {
		capacity = 100
	}
	return &patchHistory{
		entries:  make([]historyEntry, capacity),
		capacity: capacity,
	}
}

// add stores a sent frame. The oldest entry is overwritten when full.
func (h *patchHistory) add(seq uint64, frame []byte) {
	h.entries[h.head] = historyEntry{seq: seq, frame: frame}
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}
}

// minSeq returns the oldest stored sequence, or 0 when empty.
func (h *patchHistory) minSeq() uint64 {
	if h.count == 0 {
		return 0
	}
	return h.entries[(h.head-h.count+h.capacity)%h.capacity].seq
}

// framesAfter returns the frames with seq > after, oldest first. ok is
// false when some of them were already overwritten.
func (h *patchHistory) framesAfter(after uint64) (frames [][]byte, ok bool) {
	if h.count == 0 {
		return nil, true
	}
	if after+1 < h.minSeq() {
		return nil, false
	}
	for i := 0; i < h.count; i++ {
		e := h.entries[(h.head-h.count+i+h.capacity)%h.capacity]
		if e.seq > after {
			frames = append(frames, e.frame)
		}
	}
	return frames, true
}
