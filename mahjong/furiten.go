package mahjong

// isFuriten reports whether player is currently barred from declaring
// Ron: any tile in their waiting-tile set sits in their own discard
// pile, or a sticky furiten flag (temporary-since-last-draw, or
// permanent-for-the-round under riichi) is set.
func isFuriten(state *State, cache *EngineCache, player int) bool {
	if state.FuritenPermanent[player] || state.Furiten[player] {
		return true
	}
	for _, d := range state.Discards[player] {
		if cache.isWaitingOn(player, d.Tile) {
			return true
		}
	}
	return false
}

// markPassedRon records that player had a winning tile available and
// did not (or could not) claim it: temporary furiten until their next
// draw, or — if they are under active riichi — furiten for the rest of
// the round.
func markPassedRon(state *State, player int) {
	if state.RiichiFlags[player].IsActive {
		state.FuritenPermanent[player] = true
	} else {
		state.Furiten[player] = true
	}
}

// clearTemporaryFuriten lifts a non-permanent furiten flag at the start
// of player's own draw.
func clearTemporaryFuriten(state *State, player int) {
	state.Furiten[player] = false
}
