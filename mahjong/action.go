package mahjong

// minDrawsForRiichi is the number of live-wall draws that must remain
// (including the discarding player's own upcoming draws) for a riichi
// declaration to be legal: the hand must get at least one more go-around.
const minDrawsForRiichi = 4

func drawsRemaining(state *State) int {
	return liveWallSize - state.NumDrawnHead - state.NumDrawnTail
}

// checkAction validates action against the current state and actor,
// populating nothing in cache beyond what register_reaction later reads
// via the (unchanged) wait cache. Returns a descriptive *ActionError on
// rejection.
func checkAction(state *State, cache *EngineCache, action Action) error {
	actor := state.Actor
	hand := state.ClosedHands[actor]

	switch action.Kind {
	case ActionDiscard:
		if hand[action.Tile.Encoding()] == 0 {
			return ErrTileNotInHand
		}
		if action.DeclaresRiichi {
			for _, m := range state.Melds[actor] {
				if !m.IsClosed() {
					return ErrNotClosedForRiichi
				}
			}
			if state.RiichiFlags[actor].IsActive {
				return ErrNotClosedForRiichi
			}
			if state.Points[actor] < state.Ruleset.RiichiDepositPoints {
				return ErrInsufficientPointsForRiichi
			}
			if drawsRemaining(state) < minDrawsForRiichi {
				return ErrNoWaitAfterDiscard
			}
			nextHand := hand
			nextHand[action.Tile.Encoding()]--
			h34 := NewTileSet34From37(nextHand)
			if len(cache.dec.WaitingTiles(h34, len(state.Melds[actor]))) == 0 {
				return ErrNoWaitAfterDiscard
			}
		}
		return nil

	case ActionAnkan:
		ne := action.Tile.NormalEncoding()
		if countNormal(hand, ne) != 4 {
			return ErrKanNotAvailable
		}
		if drawsRemaining(state) == 0 {
			return ErrKanNotAvailable
		}
		if state.RiichiFlags[actor].IsActive {
			// Under riichi the ankan tile is the just-drawn 4th copy, so
			// the pre-kan waiting hand is the current 14 tiles minus one
			// copy of it.
			preHand := hand
			decrementTile(&preHand, action.Tile)
			before := cache.dec.RegularWaits(NewTileSet34From37(preHand), len(state.Melds[actor]))
			nextHand := hand
			removeFour(&nextHand, ne)
			after := cache.dec.RegularWaits(NewTileSet34From37(nextHand), len(state.Melds[actor])+1)
			if !sameWaitShapes(before, after) {
				return ErrRiichiForbidsKanChangingWait
			}
		}
		return nil

	case ActionKakan:
		ne := action.Tile.NormalEncoding()
		if hand[action.Tile.Encoding()] == 0 {
			return ErrTileNotInHand
		}
		if !hasOpenPon(state.Melds[actor], ne) {
			return ErrKanNotAvailable
		}
		if drawsRemaining(state) == 0 {
			return ErrKanNotAvailable
		}
		return nil

	case ActionTsumoAgari:
		if hand[action.Tile.Encoding()] == 0 {
			return ErrTileNotInHand
		}
		if !isAgariHand(cache.dec, hand, len(state.Melds[actor])) {
			return ErrTsumoWithoutYaku
		}
		if !hasYaku(state.Ruleset, state, cache, actor, action.Tile, AgariTsumo, state.IncomingMeld, false) {
			return ErrTsumoWithoutYaku
		}
		return nil

	case ActionAbortNineKinds:
		if !state.NineKindsEligible {
			return ErrNineKindsNotEligible
		}
		if countDistinctTerminalHonor(hand) < 9 {
			return ErrNineKindsNotEligible
		}
		return nil

	default:
		return ErrTileNotInHand
	}
}

func countNormal(hand TileSet37, normalEnc int) int {
	n := int(hand[normalEnc])
	switch normalEnc {
	case 4:
		n += int(hand[34])
	case 13:
		n += int(hand[35])
	case 22:
		n += int(hand[36])
	}
	return n
}

// removeFour decrements all four copies of the tile at normalEnc from
// hand, across its normal and (if present) red slot.
func removeFour(hand *TileSet37, normalEnc int) {
	switch normalEnc {
	case 4:
		hand[34] = 0
	case 13:
		hand[35] = 0
	case 22:
		hand[36] = 0
	}
	hand[normalEnc] = 0
}

// decrementTile removes one copy of t from hand, falling back to the
// red/normal counterpart slot when the exact encoding is empty.
func decrementTile(hand *TileSet37, t Tile) {
	if hand[t.Encoding()] > 0 {
		hand[t.Encoding()]--
		return
	}
	alt := t.ToNormal()
	if !t.IsRed() {
		alt = t.ToRed()
	}
	if alt != t && hand[alt.Encoding()] > 0 {
		hand[alt.Encoding()]--
	}
}

func hasOpenPon(melds []Meld, normalEnc int) bool {
	for _, m := range melds {
		if m.Kind == MeldPon && m.Own[0].NormalEncoding() == normalEnc {
			return true
		}
	}
	return false
}

// sameWaitShapes reports whether two RegularWait sets are equivalent as
// decompositions, not merely in their completing tiles: an ankan during
// riichi is legal only if it does not change which structures the hand
// can complete with, not merely whether the same tiles complete it. The
// comparison is set-wise over (kind, wait tile, pair, completed-group
// anchor) — the kan tile's own koutsu leaving the closed groups is
// expected and ignored; multiplicity is ignored because the enumerator
// may reach one structure through several group orderings.
func sameWaitShapes(a, b []RegularWait) bool {
	ak := waitShapeKeys(a)
	bk := waitShapeKeys(b)
	if len(ak) != len(bk) {
		return false
	}
	for k := range ak {
		if !bk[k] {
			return false
		}
	}
	return true
}

type waitShapeKey struct {
	kind     WaitingKind
	waitTile Tile
	pair     Tile
	groupMin Tile
}

func waitShapeKeys(rws []RegularWait) map[waitShapeKey]bool {
	m := make(map[waitShapeKey]bool, len(rws))
	for _, rw := range rws {
		m[waitShapeKey{rw.Kind, rw.WaitTile, rw.Pair, rw.GroupMin}] = true
	}
	return m
}

// countDistinctTerminalHonor counts how many distinct terminal/honor
// tile kinds appear (at least once) in hand, for the nine-kinds abort.
func countDistinctTerminalHonor(hand TileSet37) int {
	h34 := NewTileSet34From37(hand)
	n := 0
	for _, idx := range []int{0, 8, 9, 17, 18, 26, 27, 28, 29, 30, 31, 32, 33} {
		if h34[idx] > 0 {
			n++
		}
	}
	return n
}

// allTiles returns the complete 14-tile multiset of player's hand:
// closed tiles plus every meld's own (and, for Kakan, added) tiles and
// the tiles called from elsewhere.
func allTiles(state *State, player int) TileSet37 {
	h := state.ClosedHands[player]
	for _, m := range state.Melds[player] {
		for i := 0; i < m.NOwn; i++ {
			h[m.Own[i].Encoding()]++
		}
		if m.HasCalled {
			h[m.Called.Encoding()]++
		}
		if m.Kind == MeldKakan {
			h[m.Added.Encoding()]++
		}
	}
	return h
}

func isAgariHand(dec *Decomposer, all TileSet37, openGroups int) bool {
	h34 := NewTileSet34From37(all)
	return dec.IsAgari(h34, openGroups)
}
