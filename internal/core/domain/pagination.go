package domain

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageLimit returns the page size actually used for a requested limit:
// DefaultPageLimit when unset, clamped to MaxPageLimit.
func PageLimit(requested int) int {
	if requested <= 0 {
		return DefaultPageLimit
	}
	if requested > MaxPageLimit {
		return MaxPageLimit
	}
	return requested
}
