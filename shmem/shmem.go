// Package shmem implements component J of SPEC_FULL.md: a cross-process
// shared memory region with a co-located process-shared mutex and
// condition variable, realized over two interchangeable backends — POSIX
// (/dev/shm) and SysV — selected by the CLUON_SHAREDMEMORY_POSIX
// environment variable per §6.
//
// cgo (and therefore real pthread_mutexattr_setpshared) is out of scope
// for this module, per the REDESIGN FLAGS: the POSIX backend's lock is an
// atomic-CAS spinlock and its condition variable a futex-based sequence
// counter, both living in the first bytes of the mapped region.
package shmem

import (
	"os"
	"strings"
)

const (
	posixMaxNameLen = 254
	sysvPrefix      = "/tmp/"
)

// backend is the interface the POSIX and SysV implementations satisfy;
// SharedMemory is a thin, backend-agnostic wrapper around it.
type backend interface {
	valid() bool
	data() []byte
	size() uint32
	lock()
	unlock()
	wait()
	notifyAll()
	close() error
}

// SharedMemory is a cross-process shared region, following the state
// machine of §4.J: construction either creates (size > 0) or attaches
// (size == 0); on failure the object is simply invalid, never a fatal
// error, matching the "construction never fails fatally" contract.
type SharedMemory struct {
	name string
	b    backend
}

// usePOSIX reports whether CLUON_SHAREDMEMORY_POSIX selects the POSIX
// backend, per §6.
func usePOSIX() bool {
	return os.Getenv("CLUON_SHAREDMEMORY_POSIX") == "1"
}

// New constructs (size > 0) or attaches to (size == 0) the shared memory
// region identified by name, after normalizing it per §6/§8 invariant 8.
func New(name string, size uint32) *SharedMemory {
	if usePOSIX() {
		normalized := normalizePOSIXName(name)
		return &SharedMemory{name: normalized, b: newPOSIX(normalized, size)}
	}
	normalized := normalizeSysVName(name)
	return &SharedMemory{name: normalized, b: newSysV(normalized, size)}
}

// normalizePOSIXName applies the POSIX name rules of §6/§8: empty name
// stays empty (and therefore invalid); a name without a leading "/" gets
// one prepended; the result is truncated to at most 254 bytes.
func normalizePOSIXName(name string) string {
	if name == "" {
		return ""
	}
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if len(name) > posixMaxNameLen {
		name = name[:posixMaxNameLen]
	}
	return name
}

// normalizeSysVName applies the SysV name rule of §6: the leaf name is
// rooted under /tmp/, truncated so the full path stays at most 254 bytes.
// A name containing nested directory components ("/" beyond a single
// optional leading slash) is left as-is for the backend to reject at
// creation time, per §6's "nested directory components cause creation
// failure".
func normalizeSysVName(name string) string {
	leaf := strings.TrimPrefix(name, "/")
	full := sysvPrefix + leaf
	if len(full) > posixMaxNameLen {
		full = full[:posixMaxNameLen]
	}
	return full
}

// Name returns the normalized name this instance was constructed with.
func (s *SharedMemory) Name() string { return s.name }

// Valid reports whether construction/attachment succeeded.
func (s *SharedMemory) Valid() bool { return s.b != nil && s.b.valid() }

// Size returns the region's size in bytes, or 0 if invalid.
func (s *SharedMemory) Size() uint32 {
	if !s.Valid() {
		return 0
	}
	return s.b.size()
}

// Data returns the payload region (excluding the control header), or nil
// if invalid.
func (s *SharedMemory) Data() []byte {
	if !s.Valid() {
		return nil
	}
	return s.b.data()
}

// Lock acquires the process-shared mutex. Re-entrancy is not provided, per
// §4.J.
func (s *SharedMemory) Lock() {
	if s.Valid() {
		s.b.lock()
	}
}

// Unlock releases the process-shared mutex.
func (s *SharedMemory) Unlock() {
	if s.Valid() {
		s.b.unlock()
	}
}

// Wait blocks on the process-shared condition variable. The caller must
// hold the lock; Wait releases and re-acquires it per the usual condvar
// contract. Spurious wakeups are possible; callers must re-check their
// predicate, standard condvar discipline.
func (s *SharedMemory) Wait() {
	if s.Valid() {
		s.b.wait()
	}
}

// NotifyAll wakes every waiter blocked in Wait.
func (s *SharedMemory) NotifyAll() {
	if s.Valid() {
		s.b.notifyAll()
	}
}

// Close detaches the region; if this instance created it, the name is
// also unlinked so no stale object remains, per §4.J.
func (s *SharedMemory) Close() error {
	if s.b == nil {
		return nil
	}
	return s.b.close()
}
