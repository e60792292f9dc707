package round

import "slices"

const SlotCount = 10

type Status string

const (
	StatusInProgress = Status("in_progress")
	StatusWon        = Status("won")
	StatusLost       = Status("lost")
)

type OrderRule string

const (
	// OrderPlacement requires each placed value to exceed the previously placed one.
	OrderPlacement = OrderRule("placement")
	// OrderSlot requires filled slots, read left to right, to be strictly increasing.
	OrderSlot = OrderRule("slot")
)

type RejectReason string

const (
	RejectRoundOver       = RejectReason("round_over")
	RejectNoPendingNumber = RejectReason("no_pending_number")
	RejectSlotOccupied    = RejectReason("slot_occupied")
	RejectInvalidSlot     = RejectReason("invalid_slot")
)

type Placement struct {
	Value int `json:"value"`
	Slot  int `json:"slot"`
}

// Round is a single attempt at ordering SlotCount numbers. A zero in Slots
// marks an empty slot; drawn values are always positive.
type Round struct {
	Index          int            `json:"index"`
	Bonus          bool           `json:"bonus"`
	DrawPool       []int          `json:"drawPool"`
	Slots          [SlotCount]int `json:"slots"`
	Placements     []Placement    `json:"placements"`
	NextDraw       int            `json:"nextDraw"`
	Status         Status         `json:"status"`
	Score          int            `json:"score"`
	WrongPlacement *Placement     `json:"wrongPlacement,omitempty"`
}

type PlacementResult struct {
	Accepted bool         `json:"accepted"`
	Reason   RejectReason `json:"reason,omitempty"`
	Value    int          `json:"value,omitempty"`
	Slot     int          `json:"slot"`
	Points   int          `json:"points"`
	Won      bool         `json:"won"`
	Lost     bool         `json:"lost"`
}

func rejected(reason RejectReason, slot int) PlacementResult {
	return PlacementResult{Reason: reason, Slot: slot}
}

// Finished reports whether the round no longer accepts placements.
func (r *Round) Finished() bool {
	return r.Status != StatusInProgress
}

// CurrentNumber returns the number waiting to be placed.
func (r *Round) CurrentNumber() (int, bool) {
	if r.Status != StatusInProgress || r.NextDraw >= len(r.DrawPool) {
		return 0, false
	}
	return r.DrawPool[r.NextDraw], true
}

// Target is the ascending sequence the draw pool must end up in.
func (r *Round) Target() []int {
	sorted := make([]int, len(r.DrawPool))
	copy(sorted, r.DrawPool)
	slices.Sort(sorted)
	return sorted
}
