package exec

import (
	"bytes"
	"sync"
)

// boundedBuffer keeps the first limit bytes written and silently drops the rest,
// so the writer never blocks or fails.
type boundedBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.truncated = b.truncated || len(p) > 0

		return len(p), nil
	}

	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true

		return len(p), nil
	}

	b.buf.Write(p)

	return len(p), nil
}

func (b *boundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.truncated {
		return b.buf.String() + "\n[stderr truncated]"
	}

	return b.buf.String()
}
