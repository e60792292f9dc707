package round

import (
	"math/rand/v2"
	"time"
)

type Config struct {
	PoolSize     int // normal rounds draw from 1..PoolSize
	BonusEvery   int
	OrderRule    OrderRule
	NormalPoints int
	BonusPoints  int
}

func DefaultConfig() Config {
	return Config{
		PoolSize:     20,
		BonusEvery:   7,
		OrderRule:    OrderPlacement,
		NormalPoints: 10,
		BonusPoints:  5,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.PoolSize < SlotCount {
		c.PoolSize = SlotCount
	}
	if c.BonusEvery <= 0 {
		c.BonusEvery = def.BonusEvery
	}
	if c.OrderRule != OrderSlot {
		c.OrderRule = OrderPlacement
	}
	if c.NormalPoints <= 0 {
		c.NormalPoints = def.NormalPoints
	}
	if c.BonusPoints <= 0 {
		c.BonusPoints = def.BonusPoints
	}
	return c
}

// Engine generates rounds and validates placements. It is not safe for
// concurrent use; the owner serializes calls.
type Engine struct {
	cfg Config
	rng *rand.Rand
}

// NewEngine returns an engine drawing from rng. A nil rng uses a time-seeded source.
func NewEngine(cfg Config, rng *rand.Rand) *Engine {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Engine{cfg: cfg.normalized(), rng: rng}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// IsBonus reports whether the 1-based round index is a bonus round.
func (e *Engine) IsBonus(index int) bool {
	return index > 0 && index%e.cfg.BonusEvery == 0
}

// StartRound builds the round following previous rounds already played.
func (e *Engine) StartRound(previous int) *Round {
	if previous < 0 {
		previous = 0
	}
	r := &Round{
		Index:  previous + 1,
		Status: StatusInProgress,
	}
	r.Bonus = e.IsBonus(r.Index)

	if r.Bonus {
		r.DrawPool = sequence(SlotCount)
	} else {
		r.DrawPool = Sample(sequence(e.cfg.PoolSize), SlotCount, e.rng)
	}
	Shuffle(r.DrawPool, e.rng)
	return r
}

func (e *Engine) points(r *Round) int {
	if r.Bonus {
		return e.cfg.BonusPoints
	}
	return e.cfg.NormalPoints
}

// PlaceNumber puts the current number into slot. Rejected placements leave
// the round untouched.
func (e *Engine) PlaceNumber(r *Round, slot int) PlacementResult {
	if r.Finished() {
		return rejected(RejectRoundOver, slot)
	}
	value, ok := r.CurrentNumber()
	if !ok {
		return rejected(RejectNoPendingNumber, slot)
	}
	if slot < 0 || slot >= SlotCount {
		return rejected(RejectInvalidSlot, slot)
	}
	if r.Slots[slot] != 0 {
		return rejected(RejectSlotOccupied, slot)
	}

	// The offending value stays on the board when the order breaks.
	r.Slots[slot] = value
	r.Placements = append(r.Placements, Placement{Value: value, Slot: slot})

	res := PlacementResult{Accepted: true, Value: value, Slot: slot}
	if !e.ordered(r) {
		r.Status = StatusLost
		r.WrongPlacement = &Placement{Value: value, Slot: slot}
		res.Lost = true
		return res
	}

	r.NextDraw++
	res.Points = e.points(r)
	r.Score += res.Points
	if r.NextDraw == len(r.DrawPool) {
		r.Status = StatusWon
		res.Won = true
	}
	return res
}

func (e *Engine) ordered(r *Round) bool {
	var seq []int
	switch e.cfg.OrderRule {
	case OrderSlot:
		for _, v := range r.Slots {
			if v != 0 {
				seq = append(seq, v)
			}
		}
	default:
		seq = make([]int, len(r.Placements))
		for i, p := range r.Placements {
			seq[i] = p.Value
		}
	}
	for i := 1; i < len(seq); i++ {
		if seq[i] <= seq[i-1] {
			return false
		}
	}
	return true
}

func sequence(n int) []int {
	vals := make([]int, n)
	for i := range vals {
		vals[i] = i + 1
	}
	return vals
}
