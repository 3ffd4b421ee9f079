package shmem

import (
	"hash/fnv"
	"os"
	"strings"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// sysvControlHeaderSize reserves the spinlock word and futex sequence
// counter at the same offsets the POSIX backend uses (so newSpinlock/
// newFutexCond can be reused unmodified), plus a trailing 4-byte
// generation counter implementing the displaced-creator quirk of §4.J.
const sysvControlHeaderSize = controlHeaderSize + 4

// sysvBackend realizes a region over a SysV shared memory segment keyed by
// an ftok-style hash of the normalized path. The mutex/condvar are the same
// CAS-spinlock + futex primitive the POSIX backend uses, applied to the
// bytes SysV's shmat returns — shmat-mapped memory is an ordinary
// process-mapped region like mmap's, so the futex syscall works on it
// unmodified; a real SysV semaphore set is not a good fit here because
// notifyAll needs to wake an unbounded number of current waiters, which a
// counting semaphore cannot express without tracking waiter counts
// separately (see DESIGN.md).
type sysvBackend struct {
	ok         bool
	isCreator  bool
	path       string
	shmid      int
	mapping    []byte
	payload    uint32
	mu         spinlock
	cond       futexCond
	generation *uint32
	myGen      uint32
}

func newSysV(path string, size uint32) *sysvBackend {
	b := &sysvBackend{path: path}
	if path == "" {
		return b
	}
	leaf := strings.TrimPrefix(path, sysvPrefix)
	if strings.Contains(leaf, "/") {
		// Nested directory components are out of scope; creation fails.
		return b
	}

	isCreator := size > 0
	key := ftok(path)

	if isCreator {
		// Ensure the key file exists, matching ftok's requirement that its
		// path argument be a real, stable filesystem entry.
		f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
		if err != nil {
			return b
		}
		_ = f.Close()
	} else if _, err := os.Stat(path); err != nil {
		return b
	}

	total := int(sysvControlHeaderSize + size)
	flags := 0o600
	if isCreator {
		flags |= unix.IPC_CREAT
	}
	id, err := unix.SysvShmGet(key, total, flags)
	if err != nil {
		return b
	}
	mapping, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return b
	}

	b.shmid = id
	b.mapping = mapping
	b.payload = uint32(len(mapping)) - sysvControlHeaderSize
	b.mu = newSpinlock(mapping)
	b.cond = newFutexCond(mapping)
	b.generation = (*uint32)(unsafe.Pointer(&mapping[controlHeaderSize]))

	if isCreator {
		b.myGen = atomic.AddUint32(b.generation, 1)
	} else {
		b.myGen = atomic.LoadUint32(b.generation)
	}
	b.isCreator = isCreator
	b.ok = true
	return b
}

// ftok derives a deterministic 31-bit key from a path, standing in for
// the C ftok() a real SysV client would call.
func ftok(path string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))
	return int(h.Sum32() & 0x7fffffff)
}

// current reports whether this instance's observed generation still
// matches the segment's live generation, per the displaced-creator
// invalidation quirk of §4.J: a later creator for the same name bumps the
// generation, and every operation after that becomes a no-op.
func (b *sysvBackend) current() bool {
	return b.ok && atomic.LoadUint32(b.generation) == b.myGen
}

func (b *sysvBackend) valid() bool  { return b.current() }
func (b *sysvBackend) size() uint32 { return b.payload }

func (b *sysvBackend) data() []byte {
	if !b.current() {
		return nil
	}
	return b.mapping[sysvControlHeaderSize:]
}

func (b *sysvBackend) lock() {
	if b.current() {
		b.mu.lock()
	}
}

func (b *sysvBackend) unlock() {
	if b.current() {
		b.mu.unlock()
	}
}

func (b *sysvBackend) wait() {
	if b.current() {
		b.cond.wait(b.mu)
	}
}

func (b *sysvBackend) notifyAll() {
	if b.current() {
		b.cond.notifyAll()
	}
}

func (b *sysvBackend) close() error {
	if !b.ok {
		return nil
	}
	// Only a creator that has not been displaced removes the segment and
	// its key file; a displaced creator leaves them to the live one.
	remove := b.isCreator && b.current()
	err := unix.SysvShmDetach(b.mapping)
	if remove {
		_, _ = unix.SysvShmCtl(b.shmid, unix.IPC_RMID, nil)
		_ = os.Remove(b.path)
	}
	b.ok = false
	return err
}
