//go:build linux

package bufpool

import "golang.org/x/sys/unix"

// mmapAlloc reserves an anonymous, zero-filled region of size bytes for the
// large buffer tier. Large-tier buffers (spec.md §4.6 — up to the 1MB
// default, e.g. a 100,000-element i64 array) are mapped anonymously to keep
// them off the Go heap; requests above the large size never reach here, as
// Pool.Get allocates those directly.
//
// The mapping is never explicitly unmapped: large-tier buffers live for the
// pool's lifetime (sync.Pool gives no "this will never be requested again"
// signal), and the OS reclaims anonymous mappings at process exit the same
// way it reclaims heap memory. Falls back to a heap allocation if the
// mapping itself fails (e.g. near the process's vm.max_map_count limit) —
// a pooled scratch buffer is a performance optimization, not a correctness
// requirement.
func mmapAlloc(size int) []byte {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return make([]byte, size)
	}
	return data
}
