package loader

// DefaultCandidates returns the ordered default search list.
func DefaultCandidates() []string {
	return []string{"libwebp.dll", "libwebp-7.dll"}
}
