package mahjong

// step.go evolves State from one turn to the next once Engine.step has
// resolved which reaction (if any) wins priority: three State-mutating
// functions — stepNormal, stepCalled, stepTsumoAgari/stepRon in engine.go
// — each working over the Engine's cached decomposer.

func newState(begin RoundBegin) *State {
	s := &State{
		Ruleset:           begin.Ruleset,
		RoundID:           begin.RoundID,
		Wall:              begin.Wall,
		Points:            begin.Points,
		Pot:               begin.Pot,
		NineKindsEligible: true,
	}
	for p := 0; p < 4; p++ {
		s.ClosedHands[p] = NewTileSet37(begin.Wall[p*13 : (p+1)*13])
	}
	s.Actor = buttonForRound(begin.RoundID)
	drawn := begin.Wall.LiveTile(52)
	s.ClosedHands[s.Actor][drawn.Encoding()]++
	s.NumDrawnHead = 53
	return s
}

func kanCountsByPlayer(state *State) (total int, byPlayer [4]int) {
	for p := 0; p < 4; p++ {
		for _, m := range state.Melds[p] {
			if m.IsKan() {
				byPlayer[p]++
				total++
			}
		}
	}
	return
}

// drawNext draws the next live-wall tile for actor, or reports that the
// wall is exhausted. Kan replacement draws use drawRinshan instead; each
// one shortens the live wall by a tile, keeping the dead wall at 14.
func drawNext(state *State) (Tile, bool) {
	if state.NumDrawnHead >= liveWallSize-state.NumDrawnTail {
		return 0, false
	}
	t := state.Wall.LiveTile(state.NumDrawnHead)
	state.NumDrawnHead++
	return t, true
}

func drawRinshan(state *State) Tile {
	t := state.Wall.KanTile(state.NumDrawnTail)
	state.NumDrawnTail++
	return t
}

func isAllTerminalHonorDiscards(discards []Discard) bool {
	if len(discards) == 0 {
		return false
	}
	for _, d := range discards {
		if d.CalledBy != -1 {
			return false
		}
		if !isTerminalOrHonor(d.Tile) {
			return false
		}
	}
	return true
}

// applyDiscard commits a Discard action: removes the tile from the
// actor's closed hand, records riichi bookkeeping, and appends it to the
// discard stream.
func applyDiscard(state *State, actor int, action Action) {
	state.ClosedHands[actor][action.Tile.Encoding()]--
	if action.DeclaresRiichi {
		isDouble := state.NineKindsEligible && len(state.Discards[actor]) == 0
		state.RiichiFlags[actor] = RiichiFlags{IsActive: true, IsDouble: isDouble, IsIppatsu: true}
		state.Points[actor] -= state.Ruleset.RiichiDepositPoints
		state.Pot += state.Ruleset.RiichiDepositPoints
	}
	state.Discards[actor] = append(state.Discards[actor], Discard{
		Tile: action.Tile, CalledBy: -1,
		DeclaresRiichi: action.DeclaresRiichi, IsTsumogiri: action.IsTsumogiri,
	})
}

func applyAnkan(state *State, actor int, tile Tile) Meld {
	ne := tile.NormalEncoding()
	var own [4]Tile
	redSlot := -1
	switch ne {
	case 4:
		redSlot = 34
	case 13:
		redSlot = 35
	case 22:
		redSlot = 36
	}
	i := 0
	if redSlot != -1 && state.ClosedHands[actor][redSlot] > 0 {
		own[i] = Tile(redSlot)
		i++
		state.ClosedHands[actor][redSlot]--
	}
	for i < 4 {
		own[i] = Tile(ne)
		state.ClosedHands[actor][ne]--
		i++
	}
	meld, _ := AnkanFromTiles(own[0], own[1], own[2], own[3])
	state.Melds[actor] = append(state.Melds[actor], meld)
	return meld
}

func applyKakan(state *State, actor int, tile Tile) Meld {
	ne := tile.NormalEncoding()
	var pon Meld
	idx := -1
	for i, m := range state.Melds[actor] {
		if m.Kind == MeldPon && m.Own[0].NormalEncoding() == ne {
			pon = m
			idx = i
			break
		}
	}
	state.ClosedHands[actor][tile.Encoding()]--
	kakan, _ := KakanFromPon(pon, tile)
	state.Melds[actor][idx] = kakan
	return kakan
}

func applyChii(state *State, caller int, discard Discard, own0, own1 Tile) Meld {
	meld, _ := ChiiFromTiles(own0, own1, discard.Tile)
	meld.ConsumeFromHand(&state.ClosedHands[caller])
	state.Melds[caller] = append(state.Melds[caller], meld)
	return meld
}

func applyPon(state *State, caller, actor int, discard Discard, own0, own1 Tile) Meld {
	dir := (actor - caller + 4) % 4
	meld, _ := PonFromTilesDir(own0, own1, discard.Tile, dir)
	meld.ConsumeFromHand(&state.ClosedHands[caller])
	state.Melds[caller] = append(state.Melds[caller], meld)
	return meld
}

func applyDaiminkan(state *State, caller, actor int, discard Discard) Meld {
	dir := (actor - caller + 4) % 4
	own, _ := threeFromHand(state.ClosedHands[caller], discard.Tile.NormalEncoding())
	meld, _ := DaiminkanFromTilesDir(own[0], own[1], own[2], discard.Tile, dir)
	meld.ConsumeFromHand(&state.ClosedHands[caller])
	state.Melds[caller] = append(state.Melds[caller], meld)
	return meld
}

func clearAllIppatsu(state *State) {
	for p := 0; p < 4; p++ {
		state.RiichiFlags[p].IsIppatsu = false
	}
}

// stepNormal evolves the state for an uninterrupted turn: the actor's
// own action (Discard/Ankan/Kakan) resolves with no one calling it.
func (e *Engine) stepNormal(action Action) GameStep {
	actor := e.state.Actor
	next := e.state.Clone()
	next.Seq++

	switch action.Kind {
	case ActionDiscard:
		applyDiscard(next, actor, action)
		next.IncomingMeld = nil
		if next.Seq <= 4 && next.NineKindsEligible {
			updateFourWindTracking(next, action.Tile)
		} else {
			next.FourWindCount = 0
		}
		// Ippatsu survives until the declarer's own next discard; the
		// riichi discard itself starts the window rather than ending it.
		if !action.DeclaresRiichi {
			next.RiichiFlags[actor].IsIppatsu = false
		}
		if next.Seq >= 4 {
			next.NineKindsEligible = false
		}
		markPassedOnWaitsExcept(next, e.cache, actor, action.Tile, nil)
		e.cache.recompute(next, actor)
		next.Actor = (actor + 1) % 4
		clearTemporaryFuriten(next, next.Actor)
		if abort := checkEndOfTurnAborts(next); abort != nil {
			return e.finishAbort(*abort, next)
		}
		if t, ok := drawNext(next); ok {
			next.ClosedHands[next.Actor][t.Encoding()]++
			e.cache.recompute(next, next.Actor)
		} else {
			return e.finishAbort(wallExhaustedKind(next), next)
		}

	case ActionAnkan:
		// A closed kan offers no ron chance except kokushi robbing, so
		// only kokushi waiters who let it pass pick up furiten.
		markPassedOnKokushiWaits(next, e.cache, actor, action.Tile)
		meld := applyAnkan(next, actor, action.Tile)
		next.IncomingMeld = &meld
		next.NineKindsEligible = false
		next.FourWindCount = 0
		clearAllIppatsu(next)
		e.cache.recompute(next, actor)
		if total, _ := kanCountsByPlayer(next); total >= 5 {
			return e.finishAbort(ResultAbortFourKan, next)
		}
		t := drawRinshan(next)
		next.ClosedHands[actor][t.Encoding()]++
		e.cache.recompute(next, actor)
		// The fourth-kan abort waits for this turn's discard to pass, so
		// a rinshan tsumo off the fourth kan is still reachable.

	case ActionKakan:
		markPassedOnWaitsExcept(next, e.cache, actor, action.Tile, nil)
		meld := applyKakan(next, actor, action.Tile)
		next.IncomingMeld = &meld
		next.NineKindsEligible = false
		next.FourWindCount = 0
		clearAllIppatsu(next)
		e.cache.recompute(next, actor)
		if total, _ := kanCountsByPlayer(next); total >= 5 {
			return e.finishAbort(ResultAbortFourKan, next)
		}
		t := drawRinshan(next)
		next.ClosedHands[actor][t.Encoding()]++
		e.cache.recompute(next, actor)
	}

	e.state = next
	e.action = nil
	e.reactions = [4]*Reaction{}
	return GameStep{Result: ResultPass, State: next}
}

// stepCalled evolves the state when a Chii/Pon/Daiminkan reaction wins
// priority: the caller becomes the new actor, consuming the discard.
func (e *Engine) stepCalled(action Action, outcome reactionOutcome) GameStep {
	actor := e.state.Actor
	next := e.state.Clone()
	next.Seq++
	applyDiscard(next, actor, action)
	next.NineKindsEligible = false
	next.FourWindCount = 0
	clearAllIppatsu(next)

	caller := outcome.Caller
	reaction := e.reactions[caller]
	markPassedOnWaitsExcept(next, e.cache, actor, action.Tile, nil)
	discardIdx := len(next.Discards[actor]) - 1
	next.Discards[actor][discardIdx].CalledBy = caller

	var meld Meld
	switch outcome.Kind {
	case ResultChii:
		meld = applyChii(next, caller, next.Discards[actor][discardIdx], reaction.Own0, reaction.Own1)
	case ResultPon:
		meld = applyPon(next, caller, actor, next.Discards[actor][discardIdx], reaction.Own0, reaction.Own1)
	case ResultDaiminkan:
		meld = applyDaiminkan(next, caller, actor, next.Discards[actor][discardIdx])
	}
	next.IncomingMeld = nil
	e.cache.recompute(next, actor)
	e.cache.recompute(next, caller)
	next.Actor = caller

	if outcome.Kind == ResultDaiminkan {
		next.IncomingMeld = &meld
		if total, _ := kanCountsByPlayer(next); total >= 5 {
			return e.finishAbort(ResultAbortFourKan, next)
		}
		t := drawRinshan(next)
		next.ClosedHands[caller][t.Encoding()]++
		e.cache.recompute(next, caller)
	}

	e.state = next
	e.action = nil
	e.reactions = [4]*Reaction{}
	return GameStep{Result: outcome.Kind, State: next}
}

func updateFourWindTracking(state *State, discarded Tile) {
	if state.Seq == 1 {
		if discarded.Suit() == SuitHonor && discarded.NormalNum() <= 4 {
			state.FourWindTile = discarded
			state.FourWindCount = 1
		} else {
			state.FourWindCount = 0
		}
		return
	}
	if state.FourWindCount > 0 && discarded == state.FourWindTile {
		state.FourWindCount++
	} else {
		state.FourWindCount = 0
	}
}

// checkFourKanAbort detects the four-kan abort: four kans split across
// two or more players (a single player's four is a suukantsu attempt and
// keeps the round alive), or any fifth kan.
func checkFourKanAbort(state *State) *ActionResultKind {
	total, byPlayer := kanCountsByPlayer(state)
	if total < 4 {
		return nil
	}
	if total == 4 {
		for _, n := range byPlayer {
			if n == 4 {
				return nil
			}
		}
	}
	k := ResultAbortFourKan
	return &k
}

// checkEndOfTurnAborts runs the abort checks that apply right after a
// Pass (no call) resolves, before the next draw: four-wind, four-riichi,
// and four-kan. Wall exhaustion is checked separately once the draw
// itself is attempted.
func checkEndOfTurnAborts(state *State) *ActionResultKind {
	if state.Seq == 4 && state.FourWindCount == 4 {
		k := ResultAbortFourWind
		return &k
	}
	allRiichi := true
	for p := 0; p < 4; p++ {
		if !state.RiichiFlags[p].IsActive {
			allRiichi = false
			break
		}
	}
	if allRiichi {
		k := ResultAbortFourRiichi
		return &k
	}
	return checkFourKanAbort(state)
}

// markPassedOnKokushiWaits applies furiten to any player whose
// thirteen-orphans wait covers a tile just concealed by an ankan — the
// one robbing chance a closed kan exposes.
func markPassedOnKokushiWaits(state *State, cache *EngineCache, actor int, tile Tile) {
	for p := 0; p < 4; p++ {
		if p == actor || len(state.Melds[p]) > 0 {
			continue
		}
		h34 := NewTileSet34From37(state.ClosedHands[p])
		for _, iw := range cache.dec.ThirteenOrphansWaits(h34) {
			if containsTile(iw.WaitTiles, tile.ToNormal()) {
				markPassedRon(state, p)
			}
		}
	}
}

func wallExhaustedKind(state *State) ActionResultKind {
	for p := 0; p < 4; p++ {
		if isAllTerminalHonorDiscards(state.Discards[p]) {
			return ResultAbortNagashiMangan
		}
	}
	return ResultAbortWallExhausted
}

func (e *Engine) finishAbort(kind ActionResultKind, state *State) GameStep {
	end := &RoundEnd{Result: kind, Loser: -1, Points: state.Points, Pot: state.Pot}
	e.state = state
	e.end = end
	e.action = nil
	e.reactions = [4]*Reaction{}
	return GameStep{Result: kind, State: state, RoundEnd: end}
}
