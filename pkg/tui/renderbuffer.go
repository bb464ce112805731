// ABOUTME: Pooled byte buffer that accumulates one full frame before it is written.
// ABOUTME: Acquired fresh per frame from sync.Pool and released after the flush.

package tui

import "sync"

// maxPooledFrame caps the capacity of buffers returned to the pool so a
// single huge frame does not pin memory forever.
const maxPooledFrame = 1 << 20

var framePool = sync.Pool{
	New: func() any {
		return &FrameBuffer{buf: make([]byte, 0, 16*1024)}
	},
}

// AcquireFrame gets an empty FrameBuffer from the pool.
func AcquireFrame() *FrameBuffer {
	fb := framePool.Get().(*FrameBuffer)
	fb.Reset()
	return fb
}

// ReleaseFrame returns fb to the pool.
func ReleaseFrame(fb *FrameBuffer) {
	if fb == nil || cap(fb.buf) > maxPooledFrame {
		return
	}
	fb.Reset()
	framePool.Put(fb)
}

// FrameBuffer is an append-only byte buffer for escape sequences and content.
type FrameBuffer struct {
	buf []byte
}

// WriteString appends s.
func (f *FrameBuffer) WriteString(s string) {
	f.buf = append(f.buf, s...)
}

// AppendFunc lets callers use strconv-style Append helpers on the buffer.
func (f *FrameBuffer) AppendFunc(fn func([]byte) []byte) {
	f.buf = fn(f.buf)
}

// Bytes returns the accumulated frame. It is only valid until Reset.
func (f *FrameBuffer) Bytes() []byte {
	return f.buf
}

// Reset empties the buffer, keeping its capacity.
func (f *FrameBuffer) Reset() {
	f.buf = f.buf[:0]
}

// Len returns the number of buffered bytes.
func (f *FrameBuffer) Len() int {
	return len(f.buf)
}
