package royalty

import "errors"

var (
	errSelfCitation     = errors.New("royalty: content cannot cite itself")
	errCitationCycle    = errors.New("royalty: citation would create a cycle")
	errMaxDepthExceeded = errors.New("royalty: ancestor walk exceeded max depth")
)

// IsSelfCitation reports whether err was returned because child == parent.
func IsSelfCitation(err error) bool { return errors.Is(err, errSelfCitation) }

// IsCycle reports whether err was returned because inserting the edge
// would create a citation cycle.
func IsCycle(err error) bool { return errors.Is(err, errCitationCycle) }

// IsMaxDepthExceeded reports whether err was returned because the
// ancestor walk exceeded its configured depth limit.
func IsMaxDepthExceeded(err error) bool { return errors.Is(err, errMaxDepthExceeded) }
