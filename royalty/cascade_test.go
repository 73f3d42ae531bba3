package royalty

import (
	"math"
	"testing"
)

func TestRateDecay(t *testing.T) {
	tests := []struct {
		generation int
		want       float64
	}{
		{0, 0.21},
		{1, 0.105},
		{2, 0.0525},
		{10, RateFloor}, // decayed well below floor by generation 10
	}
	for _, tt := range tests {
		got := Rate(DefaultInitialRate, tt.generation)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Rate(g=%d): got %v, want %v", tt.generation, got, tt.want)
		}
	}
}

func TestRateNeverBelowFloor(t *testing.T) {
	if got := Rate(DefaultInitialRate, 100); got != RateFloor {
		t.Errorf("got %v, want floor %v", got, RateFloor)
	}
}

// fixture graph: grandparent <- parent <- child
func fixtureLookup(edges map[string][]*CitationEdge) ParentLookup {
	return func(contentID string) ([]*CitationEdge, error) {
		return edges[contentID], nil
	}
}

func TestCycleCheckRejectsSelfCitation(t *testing.T) {
	lookup := fixtureLookup(nil)
	err := CycleCheck(lookup, "a", "a", DefaultMaxDepth)
	if !IsSelfCitation(err) {
		t.Fatalf("got %v, want self-citation error", err)
	}
}

func TestCycleCheckDetectsCycle(t *testing.T) {
	// "b" already has ancestor "a"; proposing "a" -> "b" would cycle
	edges := map[string][]*CitationEdge{
		"b": {{ChildID: "b", ParentID: "a", Generation: 1, ParentCreator: "creator-a"}},
	}
	lookup := fixtureLookup(edges)
	err := CycleCheck(lookup, "a", "b", DefaultMaxDepth)
	if !IsCycle(err) {
		t.Fatalf("got %v, want cycle error", err)
	}
}

func TestCycleCheckAllowsAcyclic(t *testing.T) {
	edges := map[string][]*CitationEdge{
		"b": {{ChildID: "b", ParentID: "x", Generation: 1, ParentCreator: "creator-x"}},
	}
	lookup := fixtureLookup(edges)
	if err := CycleCheck(lookup, "a", "b", DefaultMaxDepth); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAncestorWalkDedupesToBestGeneration(t *testing.T) {
	// "creator-shared" is reached at generation 2 via "b" and generation 3 via "a" -> "mid"; dedup keeps gen 2
	edges := map[string][]*CitationEdge{
		"child":  {{ChildID: "child", ParentID: "b", Generation: 1, ParentCreator: "creator-b"}, {ChildID: "child", ParentID: "a", Generation: 1, ParentCreator: "creator-a"}},
		"b":      {{ChildID: "b", ParentID: "shared", Generation: 1, ParentCreator: "creator-shared"}},
		"a":      {{ChildID: "a", ParentID: "mid", Generation: 1, ParentCreator: "creator-mid"}},
		"mid":    {{ChildID: "mid", ParentID: "shared", Generation: 1, ParentCreator: "creator-shared"}},
	}
	lookup := fixtureLookup(edges)
	ancestors, err := AncestorWalk(lookup, "child", DefaultInitialRate, DefaultMaxDepth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var shared *Ancestor
	for i := range ancestors {
		if ancestors[i].CreatorID == "creator-shared" {
			shared = &ancestors[i]
		}
	}
	if shared == nil {
		t.Fatal("expected creator-shared to be reached")
	}
	if shared.Generation != 2 {
		t.Errorf("expected best generation 2 (via b), got %d", shared.Generation)
	}
}

func TestCascadeSkipsBuyerAndSellerAndOrdersDeterministically(t *testing.T) {
	edges := map[string][]*CitationEdge{
		"child": {
			{ChildID: "child", ParentID: "p1", Generation: 1, ParentCreator: "zed"},
			{ChildID: "child", ParentID: "p2", Generation: 1, ParentCreator: "alice"},
			{ChildID: "child", ParentID: "p3", Generation: 1, ParentCreator: "buyer-1"},
			{ChildID: "child", ParentID: "p4", Generation: 1, ParentCreator: "seller-1"},
		},
	}
	lookup := fixtureLookup(edges)
	payouts, err := Cascade(lookup, "child", DefaultInitialRate, DefaultMaxDepth, "buyer-1", "seller-1", 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payouts) != 2 {
		t.Fatalf("expected 2 payouts (buyer and seller excluded), got %d: %+v", len(payouts), payouts)
	}
	if payouts[0].CreatorID != "alice" || payouts[1].CreatorID != "zed" {
		t.Errorf("expected lexicographic order alice, zed; got %s, %s", payouts[0].CreatorID, payouts[1].CreatorID)
	}
}

func TestCascadeDropsSubCentPayouts(t *testing.T) {
	edges := map[string][]*CitationEdge{
		"child": {{ChildID: "child", ParentID: "ancient", Generation: 1, ParentCreator: "ancient-creator"}},
	}
	lookup := fixtureLookup(edges)
	// Force a tiny remainder so rate(generation 1) * remaining = 0.105 cents,
	// which rounds to zero.
	payouts, err := Cascade(lookup, "child", DefaultInitialRate, DefaultMaxDepth, "buyer", "seller", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payouts) != 0 {
		t.Fatalf("expected sub-cent payout to be dropped, got %+v", payouts)
	}
}
