//go:build !linux && !darwin && !windows

package loader

// DefaultCandidates returns the ordered default search list.
func DefaultCandidates() []string {
	return []string{"/usr/local/lib/libwebp.so", "libwebp.so"}
}
