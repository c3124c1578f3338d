package loader

// DefaultCandidates returns the ordered default search list.
func DefaultCandidates() []string {
	return []string{
		"libwebp.so.7",
		"libwebp.so",
		"/usr/lib/x86_64-linux-gnu/libwebp.so.7",
		"/usr/lib/aarch64-linux-gnu/libwebp.so.7",
		"/usr/lib64/libwebp.so.7",
		"/usr/lib/libwebp.so.7",
		"/usr/local/lib/libwebp.so.7",
		"/usr/local/lib/libwebp.so",
	}
}
