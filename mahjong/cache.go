package mahjong

// EngineCache holds per-player waiting-tile info derived from each
// player's closed hand, so register_action/register_reaction don't
// recompute the decomposition on every call. Invalidated and recomputed
// whenever a player's closed hand changes (begin_round, jump_to_state,
// or any meld/discard that mutates ClosedHands).
type EngineCache struct {
	dec  *Decomposer
	wait [4]waitEntry
}

type waitEntry struct {
	regular    []RegularWait
	irregular  []IrregularWait
	tiles      map[Tile]bool
	openGroups int
}

func newEngineCache() *EngineCache {
	return &EngineCache{dec: NewDecomposer()}
}

// recompute rebuilds the wait cache for one player from the current
// state's closed hand and open meld count.
func (c *EngineCache) recompute(state *State, player int) {
	h34 := NewTileSet34From37(state.ClosedHands[player])
	openGroups := len(state.Melds[player])
	var e waitEntry
	e.openGroups = openGroups
	e.regular = c.dec.RegularWaits(h34, openGroups)
	if openGroups == 0 {
		e.irregular = c.dec.IrregularWaits(h34)
	}
	e.tiles = make(map[Tile]bool)
	for _, rw := range e.regular {
		e.tiles[rw.WaitTile] = true
	}
	for _, iw := range e.irregular {
		for _, t := range iw.WaitTiles {
			e.tiles[t] = true
		}
	}
	c.wait[player] = e
}

// recomputeAll rebuilds every player's wait cache; used by begin_round
// and jump_to_state.
func (c *EngineCache) recomputeAll(state *State) {
	for p := 0; p < 4; p++ {
		c.recompute(state, p)
	}
}

// isWaitingOn reports whether tile completes player's current hand per
// the cached decomposition. WaitTile values are always normal-encoded
// (red-ness is immaterial to which slot completes a hand), so tile is
// folded before lookup.
func (c *EngineCache) isWaitingOn(player int, tile Tile) bool {
	return c.wait[player].tiles[tile.ToNormal()]
}

// waitingTiles returns the cached waiting-tile set for player.
func (c *EngineCache) waitingTiles(player int) []Tile {
	out := make([]Tile, 0, len(c.wait[player].tiles))
	for t := range c.wait[player].tiles {
		out = append(out, t)
	}
	return out
}
