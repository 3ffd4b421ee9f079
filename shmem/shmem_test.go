package shmem

import (
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePOSIXNameEmpty(t *testing.T) {
	assert.Equal(t, "", normalizePOSIXName(""))
}

func TestNormalizePOSIXNamePrependsSlash(t *testing.T) {
	assert.Equal(t, "/ABC", normalizePOSIXName("ABC"))
}

func TestNormalizePOSIXNameTruncatedTo254(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	got := normalizePOSIXName(string(long))
	assert.Len(t, got, 254)
	assert.Equal(t, byte('/'), got[0])
}

func TestNormalizeSysVNameRootsUnderTmp(t *testing.T) {
	assert.Equal(t, "/tmp/ABC", normalizeSysVName("ABC"))
}

func TestNormalizeSysVNameTruncated(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	got := normalizeSysVName(string(long))
	assert.LessOrEqual(t, len(got), 254)
}

func TestCreateCreateOpenEmptyNameInvalid(t *testing.T) {
	sm := New("", 4)
	assert.False(t, sm.Valid())
	assert.Equal(t, uint32(0), sm.Size())
	assert.Nil(t, sm.Data())
}

// TestMutualExclusionUnderLock exercises invariant 7 at the in-process
// level: concurrent goroutines incrementing a shared counter under Lock
// must observe the exact sum of increments. This runs the spinlock
// directly (without requiring an actual /dev/shm or SysV segment), since
// the mutual-exclusion property the spinlock provides is independent of
// which backend supplies the memory.
func TestMutualExclusionUnderLock(t *testing.T) {
	mapping := make([]byte, controlHeaderSize+4)
	lk := newSpinlock(mapping)

	const goroutines = 10
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				lk.lock()
				v := loadCounter(mapping)
				storeCounter(mapping, v+1)
				lk.unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, uint32(goroutines*perGoroutine), loadCounter(mapping))
}

func loadCounter(mapping []byte) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&mapping[controlHeaderSize])))
}

func storeCounter(mapping []byte, v uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&mapping[controlHeaderSize])), v)
}
