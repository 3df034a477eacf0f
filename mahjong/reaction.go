package mahjong

// threeFromHand picks the three tiles of normalEnc that a Daiminkan
// reaction implicitly consumes: which physical slots (red or normal)
// participate is forced by what the reactor actually holds, never a
// choice the reactor makes.
func threeFromHand(hand TileSet37, normalEnc int) ([3]Tile, bool) {
	return nFromHand(hand, normalEnc, 3)
}

func nFromHand(hand TileSet37, normalEnc, want int) ([3]Tile, bool) {
	var out [3]Tile
	redSlot := -1
	switch normalEnc {
	case 4:
		redSlot = 34
	case 13:
		redSlot = 35
	case 22:
		redSlot = 36
	}
	i := 0
	if redSlot != -1 && hand[redSlot] > 0 {
		out[i] = Tile(redSlot)
		i++
	}
	for int(hand[normalEnc]) >= want-i && i < want {
		out[i] = Tile(normalEnc)
		i++
	}
	return out, i == want
}

// checkReaction validates reaction by reactor against the cached action,
// following the legal out-of-turn responses for each action kind.
func checkReaction(state *State, cache *EngineCache, rules Ruleset, action Action, reactor int, reaction Reaction) error {
	actor := state.Actor
	if reactor == actor {
		return ErrDoesNotCompleteHand
	}
	hand := state.ClosedHands[reactor]

	switch action.Kind {
	case ActionDiscard, ActionKakan, ActionAnkan:
		// fallthrough to per-kind checks below
	default:
		return ErrDoesNotCompleteHand
	}

	switch reaction.Kind {
	case ReactionChii:
		if action.Kind != ActionDiscard {
			return ErrDoesNotCompleteHand
		}
		if reactor != (actor+1)%4 {
			return ErrNotFromCorrectPlayer
		}
		if !handHasBoth(hand, reaction.Own0, reaction.Own1) {
			return ErrTilesNotInHand
		}
		if _, ok := ChiiFromTiles(reaction.Own0, reaction.Own1, action.Tile); !ok {
			return ErrTilesNotInHand
		}
		return nil

	case ReactionPon:
		if action.Kind != ActionDiscard {
			return ErrDoesNotCompleteHand
		}
		if !handHasBoth(hand, reaction.Own0, reaction.Own1) {
			return ErrTilesNotInHand
		}
		dir := (actor - reactor + 4) % 4
		if _, ok := PonFromTilesDir(reaction.Own0, reaction.Own1, action.Tile, dir); !ok {
			return ErrTilesNotInHand
		}
		return nil

	case ReactionDaiminkan:
		if action.Kind != ActionDiscard {
			return ErrReactionKanNotAvailable
		}
		ne := action.Tile.NormalEncoding()
		if _, ok := threeFromHand(hand, ne); !ok {
			return ErrReactionKanNotAvailable
		}
		return nil

	case ReactionRonAgari:
		winningTile := action.Tile
		if action.Kind == ActionAnkan {
			// Only a kokushi wait may rob a closed kan, and only on the
			// exact tile just concealed.
			h34 := NewTileSet34From37(hand)
			robbed := false
			for _, iw := range NewDecomposer().ThirteenOrphansWaits(h34) {
				if containsTile(iw.WaitTiles, winningTile.ToNormal()) {
					robbed = true
					break
				}
			}
			if !robbed {
				return ErrDoesNotCompleteHand
			}
		} else if !cache.isWaitingOn(reactor, winningTile) {
			return ErrDoesNotCompleteHand
		}
		if isFuriten(state, cache, reactor) {
			return ErrFuriten
		}
		actionIsKan := action.Kind == ActionKakan || action.Kind == ActionAnkan
		if !hasYaku(rules, state, cache, reactor, winningTile, AgariRon, state.IncomingMeld, actionIsKan) {
			return ErrRonWithoutYaku
		}
		return nil

	default:
		return ErrDoesNotCompleteHand
	}
}

func handHasBoth(hand TileSet37, a, b Tile) bool {
	if a == b {
		return hand[a.Encoding()] >= 2
	}
	return hand[a.Encoding()] >= 1 && hand[b.Encoding()] >= 1
}

// reactionOutcome is the priority-resolved result of every reaction
// registered against the current action: who (if anyone) calls, and who
// (if anyone) wins by ron.
type reactionOutcome struct {
	Kind    ActionResultKind
	Caller  int // valid for Chii/Pon/Daiminkan
	Winners []int
}

// resolveReactions applies the reaction priority order — Ron > Daiminkan
// > Pon > Chii, ties among Chii/Pon broken left-to-right — and the
// multi-ron abort rule.
func resolveReactions(rules Ruleset, actor int, reactions [4]*Reaction) reactionOutcome {
	var ronPlayers []int
	for p := 1; p <= 3; p++ {
		player := (actor + p) % 4
		if r := reactions[player]; r != nil && r.Kind == ReactionRonAgari {
			ronPlayers = append(ronPlayers, player)
		}
	}
	if len(ronPlayers) >= 3 && !rules.AllowTripleRon {
		return reactionOutcome{Kind: ResultAbortMultiRon}
	}
	if len(ronPlayers) == 2 && !rules.AllowDoubleRon {
		return reactionOutcome{Kind: ResultAbortMultiRon}
	}
	if len(ronPlayers) > 0 {
		return reactionOutcome{Kind: ResultRonAgari, Winners: ronPlayers}
	}
	for p := 1; p <= 3; p++ {
		player := (actor + p) % 4
		if r := reactions[player]; r != nil && r.Kind == ReactionDaiminkan {
			return reactionOutcome{Kind: ResultDaiminkan, Caller: player}
		}
	}
	for p := 1; p <= 3; p++ {
		player := (actor + p) % 4
		if r := reactions[player]; r != nil && r.Kind == ReactionPon {
			return reactionOutcome{Kind: ResultPon, Caller: player}
		}
	}
	if r := reactions[(actor+1)%4]; r != nil && r.Kind == ReactionChii {
		return reactionOutcome{Kind: ResultChii, Caller: (actor + 1) % 4}
	}
	return reactionOutcome{Kind: ResultPass}
}
