package random

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"
	"time"
)

const lowerCharset = "0123456789abcdefghijklmnopqrstuvwxyz"

var (
	mu  sync.Mutex
	src *mrand.Rand
)

func init() {
	var b [8]byte
	seed := time.Now().UnixNano()
	if _, err := crand.Read(b[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	src = mrand.New(mrand.NewSource(seed))
}

// Lower returns a random string of lower-case letters and digits, safe for
// use in slugs.
func Lower(length int) string {
	return fromCharset(lowerCharset, length)
}

func fromCharset(set string, length int) string {
	mu.Lock()
	defer mu.Unlock()

	b := make([]byte, length)
	for i := range b {
		b[i] = set[src.Intn(len(set))]
	}
	return string(b)
}
