package mahjong

// agari.go assembles the AgariInput candidate(s) for a winning claim —
// one per applicable decomposition — and picks the highest-scoring one.
// Seven-pairs and regular decompositions are independently computed and
// may coexist; the scorer picks whichever pays more.

func buttonForRound(roundID RoundID) int { return ((roundID.Kyoku % 4) + 4) % 4 }
func roundWindForRound(roundID RoundID) int {
	if roundID.Kyoku < 0 {
		return 0
	}
	w := roundID.Kyoku / 4
	if w > 3 {
		w = 3
	}
	return w
}

func containsTile(ts []Tile, t Tile) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

// agariCandidates enumerates every (RegularWait | IrregularWait) the
// winning hand admits for winningTile, each packaged as a distinct
// AgariInput ready for yaku detection and scoring.
func agariCandidates(state *State, cache *EngineCache, player int, winningTile Tile, kind AgariKind, incoming *Meld, actionIsKan bool) []AgariInput {
	hand := state.ClosedHands[player]
	if kind == AgariRon {
		hand[winningTile.Encoding()]++
	}
	preHand := hand
	preHand[winningTile.Encoding()]--
	openGroups := len(state.Melds[player])
	isClosed := true
	for _, m := range state.Melds[player] {
		if !m.IsClosed() {
			isClosed = false
			break
		}
	}

	numKans, _ := kanCountsByPlayer(state)
	revealed := 1 + numKans
	if revealed > doraCount {
		revealed = doraCount
	}
	doraIndicators := make([]Tile, revealed)
	uraIndicators := make([]Tile, revealed)
	for i := 0; i < revealed; i++ {
		doraIndicators[i] = state.Wall.DoraIndicator(i)
		uraIndicators[i] = state.Wall.UraDoraIndicator(i)
	}

	base := AgariInput{
		Winner:            player,
		Button:            buttonForRound(state.RoundID),
		RoundWind:         roundWindForRound(state.RoundID),
		Melds:             state.Melds[player],
		AllTiles:          allTiles(state, player),
		IsClosed:          isClosed,
		AgariKind:         kind,
		IncomingMeld:      incoming,
		ActionIsKan:       actionIsKan,
		NumDraws:          state.NumDrawnHead,
		MaxNumDraws:       liveWallSize - state.NumDrawnTail,
		IsInitAbortable:   state.NineKindsEligible,
		RiichiFlags:       state.RiichiFlags[player],
		WinningTile:       winningTile,
		DoraIndicators:    doraIndicators,
		UraDoraIndicators: uraIndicators,
	}
	if kind == AgariRon {
		base.AllTiles[winningTile.Encoding()]++
	}

	var out []AgariInput
	h34 := NewTileSet34From37(preHand)
	for _, rw := range cache.dec.RegularWaits(h34, openGroups) {
		if rw.WaitTile != winningTile.ToNormal() {
			continue
		}
		in := base
		rwCopy := rw
		in.RegularWait = &rwCopy
		out = append(out, in)
	}
	if openGroups == 0 {
		for _, iw := range cache.dec.IrregularWaits(h34) {
			if !containsTile(iw.WaitTiles, winningTile.ToNormal()) {
				continue
			}
			in := base
			iwCopy := iw
			in.Irregular = &iwCopy
			out = append(out, in)
		}
	}
	return out
}

// scoredAgari is one candidate decomposition's yaku results and score.
type scoredAgari struct {
	in        AgariInput
	results   []YakuResult
	han, fu   int
	base      int
	isYakuman bool
}

func scoreCandidate(rules Ruleset, in AgariInput) scoredAgari {
	extraFu := 0
	if in.RegularWait != nil {
		_, extraFu, _ = computeFu(in)
	}
	results := FilterYaku(rules, DetectYakus(rules, in, extraFu))
	han, fu, base, isYakuman := settleAgari(in, results)
	return scoredAgari{in: in, results: results, han: han, fu: fu, base: base, isYakuman: isYakuman}
}

// betterScore reports whether a beats b by total payout magnitude
// (yakuman units, then han, then fu) — the tiebreak between coexisting
// decompositions.
func betterScore(a, b scoredAgari) bool {
	if a.isYakuman != b.isYakuman {
		return a.isYakuman
	}
	if a.han != b.han {
		return a.han > b.han
	}
	return a.fu > b.fu
}

// bestAgari scores every candidate decomposition and returns the one
// the ruleset allows with the highest score, or ok=false if none of the
// candidates clears the "at least one yaku" bar.
func bestAgari(rules Ruleset, candidates []AgariInput) (scoredAgari, bool) {
	var best scoredAgari
	found := false
	for _, c := range candidates {
		s := scoreCandidate(rules, c)
		if len(s.results) == 0 {
			continue
		}
		if !found || betterScore(s, best) {
			best = s
			found = true
		}
	}
	return best, found
}

// hasYaku reports whether any decomposition of the winning claim
// produces at least one ruleset-enabled yaku.
func hasYaku(rules Ruleset, state *State, cache *EngineCache, player int, winningTile Tile, kind AgariKind, incoming *Meld, actionIsKan bool) bool {
	_, ok := bestAgari(rules, agariCandidates(state, cache, player, winningTile, kind, incoming, actionIsKan))
	return ok
}
