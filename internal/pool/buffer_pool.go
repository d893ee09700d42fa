package pool

import "sync"

var bufferPool sync.Pool

// GetBuffer returns a byte buffer of length size from the pool.
//
// Return back the buffer to the pool with PutBuffer.
func GetBuffer(size int) *[]byte {
	if v := bufferPool.Get(); v != nil {
		buf, _ := v.(*[]byte) // only *[]byte is put into the pool
		if cap(*buf) >= size {
			*buf = (*buf)[:size]
			return buf
		}
	}

	buf := make([]byte, size)

	return &buf
}

// PutBuffer returns buf to the pool.
//
// buf cannot be accessed after returning to the pool.
func PutBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	bufferPool.Put(buf)
}
