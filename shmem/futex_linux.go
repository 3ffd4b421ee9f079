package shmem

import (
	"runtime"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// controlHeaderSize is the number of bytes the POSIX backend reserves at
// the start of the mapping for the process-shared lock word and condvar
// sequence counter, per §4.J/§9 ("cross-process synchronization
// primitives living in mapped memory").
const controlHeaderSize = 8

const (
	futexWait = 0
	futexWake = 1
)

// spinlock is an atomic-CAS mutex living at the first 4 bytes of a mapped
// region, standing in for a real pthread_mutexattr_setpshared mutex since
// cgo is out of scope for this module.
type spinlock struct {
	word *uint32
}

func newSpinlock(mapping []byte) spinlock {
	return spinlock{word: (*uint32)(unsafe.Pointer(&mapping[0]))}
}

func (l spinlock) lock() {
	for !atomic.CompareAndSwapUint32(l.word, 0, 1) {
		runtime.Gosched()
	}
}

func (l spinlock) unlock() {
	atomic.StoreUint32(l.word, 0)
}

// futexCond is a condition variable realized as a sequence counter at
// bytes [4:8) of a mapped region, woken via the Linux futex syscall.
type futexCond struct {
	seq *uint32
}

func newFutexCond(mapping []byte) futexCond {
	return futexCond{seq: (*uint32)(unsafe.Pointer(&mapping[4]))}
}

// wait releases l, blocks until notifyAll observes a change to the
// sequence counter (or a spurious wakeup), then re-acquires l.
func (c futexCond) wait(l spinlock) {
	val := atomic.LoadUint32(c.seq)
	l.unlock()
	futexWaitOp(c.seq, val)
	l.lock()
}

func (c futexCond) notifyAll() {
	atomic.AddUint32(c.seq, 1)
	futexWakeOp(c.seq, int(^uint32(0)>>1))
}

func futexWaitOp(addr *uint32, val uint32) {
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWait, uintptr(val), 0, 0, 0)
}

func futexWakeOp(addr *uint32, count int) {
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWake, uintptr(count), 0, 0, 0)
}
