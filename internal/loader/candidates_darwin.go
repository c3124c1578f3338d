package loader

// DefaultCandidates returns the ordered default search list. Homebrew on
// Apple silicon comes first, then Intel Homebrew and MacPorts.
func DefaultCandidates() []string {
	return []string{
		"/opt/homebrew/lib/libwebp.dylib",
		"/usr/local/lib/libwebp.dylib",
		"/opt/local/lib/libwebp.dylib",
		"libwebp.7.dylib",
		"libwebp.dylib",
	}
}
