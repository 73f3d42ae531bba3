// Package royalty implements the citation lineage DAG and the generational
// decay cascade that pays ancestors of derivative content on every
// settled transaction.
package royalty

import (
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/types"
)

// CitationEdge is a directed edge child -> parent in the lineage DAG,
// recorded once when a derivative is declared.
type CitationEdge struct {
	ID            id.CitationEdgeID `json:"id"`
	ChildID       string            `json:"child_id"`
	ParentID      string            `json:"parent_id"`
	Generation    int               `json:"generation"` // >= 1
	CreatorID     string            `json:"creator_id"`
	ParentCreator string            `json:"parent_creator"`
	CreatedAt     int64             `json:"created_at"`
}

// Payout is one row of a cascade's per-recipient breakdown, linking back
// to the ledger entry it was paid through.
type Payout struct {
	ID          id.RoyaltyPayoutID `json:"id"`
	EntryID     id.EntryID         `json:"entry_id"`
	ContentID   string             `json:"content_id"`
	CreatorID   string             `json:"creator_id"`
	Generation  int                `json:"generation"`
	Rate        float64            `json:"rate"`
	AmountCents types.Cents        `json:"amount_cents"`
	CreatedAt   int64              `json:"created_at"`
}
