package shmem

import (
	"golang.org/x/sys/unix"
)

const posixDir = "/dev/shm"

// posixBackend maps a file under /dev/shm, per §4.J's Go realization note.
type posixBackend struct {
	ok        bool
	isCreator bool
	path      string
	fd        int
	mapping   []byte
	payload   uint32
	mu        spinlock
	cond      futexCond
}

func newPOSIX(name string, size uint32) *posixBackend {
	b := &posixBackend{}
	if name == "" {
		return b
	}
	b.path = posixDir + name

	if size > 0 {
		// A fresh creation always starts from a new inode: any earlier
		// mapping under the same name keeps referencing the old
		// (unlinked but still resident) memory instead of this one.
		_ = unix.Unlink(b.path)
		fd, err := unix.Open(b.path, unix.O_CREAT|unix.O_RDWR, 0o600)
		if err != nil {
			return b
		}
		total := int64(controlHeaderSize) + int64(size)
		if err := unix.Ftruncate(fd, total); err != nil {
			_ = unix.Close(fd)
			return b
		}
		b.fd = fd
		b.isCreator = true
		b.payload = size
	} else {
		fd, err := unix.Open(b.path, unix.O_RDWR, 0)
		if err != nil {
			return b
		}
		var st unix.Stat_t
		if err := unix.Fstat(fd, &st); err != nil || st.Size < controlHeaderSize {
			_ = unix.Close(fd)
			return b
		}
		b.fd = fd
		b.payload = uint32(st.Size - controlHeaderSize)
	}

	mapping, err := unix.Mmap(b.fd, 0, int(controlHeaderSize+b.payload), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(b.fd)
		b.fd = -1
		return b
	}
	b.mapping = mapping
	b.mu = newSpinlock(mapping)
	b.cond = newFutexCond(mapping)
	b.ok = true
	return b
}

func (b *posixBackend) valid() bool  { return b.ok }
func (b *posixBackend) size() uint32 { return b.payload }

func (b *posixBackend) data() []byte {
	if !b.ok {
		return nil
	}
	return b.mapping[controlHeaderSize:]
}

func (b *posixBackend) lock()      { b.mu.lock() }
func (b *posixBackend) unlock()    { b.mu.unlock() }
func (b *posixBackend) wait()      { b.cond.wait(b.mu) }
func (b *posixBackend) notifyAll() { b.cond.notifyAll() }

func (b *posixBackend) close() error {
	if !b.ok {
		return nil
	}
	err := unix.Munmap(b.mapping)
	_ = unix.Close(b.fd)
	if b.isCreator {
		_ = unix.Unlink(b.path)
	}
	b.ok = false
	return err
}
