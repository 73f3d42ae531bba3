package royalty

import (
	"sort"

	"github.com/concordhq/ledger/types"
)

// DefaultMaxDepth bounds the ancestor BFS walk. Configurable by callers
// that pass their own limit into CycleCheck/Cascade.
const DefaultMaxDepth = 50

// DefaultInitialRate is r0, the generation-0 royalty rate (21%).
const DefaultInitialRate = 0.21

// RateFloor is the minimum royalty rate any ancestor ever receives,
// however deep the lineage: the generational decay never collapses a
// royalty to zero.
const RateFloor = 0.0005

// Rate returns the royalty rate for an ancestor at the given generation:
// rate(g) = max(r0 / 2^g, RateFloor).
func Rate(r0 float64, generation int) float64 {
	decayed := r0
	for i := 0; i < generation; i++ {
		decayed /= 2
	}
	if decayed < RateFloor {
		return RateFloor
	}
	return decayed
}

// ParentLookup fetches the direct parent edges of a content id. It is
// satisfied by Store.ParentsOf, and accepted as a function so the walk
// itself stays pure and independently testable against fixtures.
type ParentLookup func(contentID string) ([]*CitationEdge, error)

// CycleCheck reports whether inserting the edge child -> candidateParent
// would create a cycle: it walks the ancestors of candidateParent
// breadth-first and rejects if child is reached, or if the walk exceeds
// maxDepth. Self-edges are rejected unconditionally.
func CycleCheck(lookup ParentLookup, childID, candidateParentID string, maxDepth int) error {
	if childID == candidateParentID {
		return errSelfCitation
	}

	visited := map[string]bool{candidateParentID: true}
	frontier := []string{candidateParentID}

	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= maxDepth {
			return errMaxDepthExceeded
		}
		var next []string
		for _, id := range frontier {
			parents, err := lookup(id)
			if err != nil {
				return err
			}
			for _, edge := range parents {
				if edge.ParentID == childID {
					return errCitationCycle
				}
				if visited[edge.ParentID] {
					continue
				}
				visited[edge.ParentID] = true
				next = append(next, edge.ParentID)
			}
		}
		frontier = next
	}
	return nil
}

// Ancestor is one deduplicated entry from an ancestor walk: the best
// (lowest-generation) path by which a creator was reached.
type Ancestor struct {
	CreatorID  string
	Generation int
	Rate       float64
}

// AncestorWalk performs the breadth-first ancestor traversal from
// contentID described in the cascade contract: accumulate generation
// distance per edge, cap at maxDepth, and for creators reached by more
// than one path keep only the lowest-generation (highest-rate) entry.
func AncestorWalk(lookup ParentLookup, contentID string, r0 float64, maxDepth int) ([]Ancestor, error) {
	type frontierNode struct {
		contentID  string
		generation int
	}

	best := map[string]Ancestor{} // creator id -> best ancestor entry
	visited := map[string]bool{contentID: true}
	frontier := []frontierNode{{contentID: contentID, generation: 0}}

	for len(frontier) > 0 {
		var next []frontierNode
		for _, node := range frontier {
			if node.generation >= maxDepth {
				continue
			}
			parents, err := lookup(node.contentID)
			if err != nil {
				return nil, err
			}
			for _, edge := range parents {
				generation := node.generation + 1
				rate := Rate(r0, generation)
				if existing, ok := best[edge.ParentCreator]; !ok || generation < existing.Generation {
					best[edge.ParentCreator] = Ancestor{
						CreatorID:  edge.ParentCreator,
						Generation: generation,
						Rate:       rate,
					}
				}
				if visited[edge.ParentID] {
					continue
				}
				visited[edge.ParentID] = true
				next = append(next, frontierNode{contentID: edge.ParentID, generation: generation})
			}
		}
		frontier = next
	}

	result := make([]Ancestor, 0, len(best))
	for _, a := range best {
		result = append(result, a)
	}
	return result, nil
}

// CascadePayout is a single computed cascade payout, before it is written
// as a ledger entry and a Payout row.
type CascadePayout struct {
	Ancestor
	AmountCents types.Cents
}

// Cascade computes the payout batch for a transaction on content
// contentID: it walks ancestors, skips the buyer and seller (they never
// receive cascade royalties on their own transaction), computes each
// payout as round_half_up(remainingAfterFees * rate(generation)), drops
// payouts under one cent, and returns the survivors in the deterministic
// order the engine applies them: ascending generation, then lexicographic
// creator id.
func Cascade(lookup ParentLookup, contentID string, r0 float64, maxDepth int, buyerID, sellerID string, remainingAfterFees types.Cents) ([]CascadePayout, error) {
	ancestors, err := AncestorWalk(lookup, contentID, r0, maxDepth)
	if err != nil {
		return nil, err
	}

	payouts := make([]CascadePayout, 0, len(ancestors))
	for _, a := range ancestors {
		if a.CreatorID == buyerID || a.CreatorID == sellerID {
			continue
		}
		amount := types.RoundHalfUp(float64(remainingAfterFees) * a.Rate)
		if amount < 1 {
			continue
		}
		payouts = append(payouts, CascadePayout{Ancestor: a, AmountCents: amount})
	}

	sort.Slice(payouts, func(i, j int) bool {
		if payouts[i].Generation != payouts[j].Generation {
			return payouts[i].Generation < payouts[j].Generation
		}
		return payouts[i].CreatorID < payouts[j].CreatorID
	})
	return payouts, nil
}
