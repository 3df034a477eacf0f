package mahjong

// Fu/point-table logic: fixed-tier base points and a rounded payout
// split for tsumo/ron, plus the fu breakdown (wait shape, pair, groups)
// that feeds it.

func roundUpTo(n, unit int) int {
	if n%unit == 0 {
		return n
	}
	return n + (unit - n%unit)
}

func roundUpTo10(n int) int  { return roundUpTo(n, 10) }
func roundUpTo100(n int) int { return roundUpTo(n, 100) }

// yakuhaiPairFu is the pair's fu: +2 per role the tile fills (dragon,
// round wind, seat wind — a double wind pair is worth 4).
func yakuhaiPairFu(t Tile, roundWind, seatWind int) int {
	if t.Suit() != SuitHonor {
		return 0
	}
	n := t.NormalNum()
	if n >= 5 {
		return 2 // dragons
	}
	wind := n - 1 // 0=E,1=S,2=W,3=N
	fu := 0
	if wind == roundWind {
		fu += 2
	}
	if wind == seatWind {
		fu += 2
	}
	return fu
}

// effectivePair is the tile the hand pairs on: the stored Pair, except
// for Tanki where the winning tile itself becomes the pair.
func effectivePair(rw *RegularWait) Tile {
	if rw.Kind == WaitTanki {
		return rw.WaitTile
	}
	return rw.Pair
}

func isTerminalOrHonor(t Tile) bool {
	return t.Suit() == SuitHonor || t.NormalNum() == 1 || t.NormalNum() == 9
}

// koutsuFu returns the fu contribution of one triplet/kan group.
func koutsuFu(tile Tile, concealed, isKan bool) int {
	base := 2
	if isKan {
		base = 8
	}
	if isTerminalOrHonor(tile) {
		base *= 2
	}
	if concealed {
		base *= 2
	}
	return base
}

// fuBreakdown is the additive fu contributed by everything beyond the
// base 20 and the ron-closed/tsumo flat bonuses: the pair, the wait
// shape, and every triplet/kan (closed or open). Pinfu is exactly the
// case where this totals zero on a closed, all-shuntsu, ryanmen hand
// with a non-yakuhai pair.
func fuBreakdown(in AgariInput, rw *RegularWait) int {
	roundWind, seatWind := in.RoundWind, selfWindForPlayer(in.Button, in.Winner)
	fu := yakuhaiPairFu(effectivePair(rw), roundWind, seatWind)
	switch rw.Kind {
	case WaitKanchan, WaitPenchan, WaitTanki:
		fu += 2
	}
	waitGroup, waitGroupOK := rw.WaitGroup()
	for _, g := range rw.Groups {
		if g.Kind == GroupKoutsu {
			fu += koutsuFu(g.Tile, true, false)
		}
	}
	if waitGroupOK && waitGroup.Kind == GroupKoutsu {
		concealed := in.AgariKind == AgariTsumo
		fu += koutsuFu(waitGroup.Tile, concealed, false)
	}
	for _, m := range in.Melds {
		switch m.Kind {
		case MeldPon:
			fu += koutsuFu(m.NormalTile(), false, false)
		case MeldKakan, MeldDaiminkan:
			fu += koutsuFu(m.NormalTile(), false, true)
		case MeldAnkan:
			fu += koutsuFu(m.NormalTile(), true, true)
		}
	}
	return fu
}

// computeFu returns the final, rounded fu total for a winning hand, and
// whether it qualifies as pinfu (no extra fu, ryanmen wait, closed).
func computeFu(in AgariInput) (fu int, extraFu int, isPinfu bool) {
	if in.Irregular != nil {
		if in.Irregular.Kind == WaitSevenPairsKind {
			return 25, 0, false
		}
		return 25, 0, false // kokushi is yakuman; fu is never consulted
	}
	rw := in.RegularWait
	extraFu = fuBreakdown(in, rw)
	isPinfu = in.IsClosed && extraFu == 0 && rw.Kind == WaitRyanmen

	if isPinfu {
		if in.AgariKind == AgariRon {
			return 30, extraFu, true
		}
		return 20, extraFu, true
	}

	total := 20
	if in.AgariKind == AgariRon && in.IsClosed {
		total += 10
	}
	if in.AgariKind == AgariTsumo {
		total += 2
	}
	total += extraFu
	total = roundUpTo10(total)
	if total == 20 {
		// Open pinfu-shaped ron: no fu source at all still settles at 30.
		total = 30
	}
	return total, extraFu, false
}

// basePoints is fu * 2^(han+2), the unit from which ron/tsumo payments
// are derived, capped at the mangan base of 2000. Hands of 5 han and
// above use fixedBaseForHan instead.
func basePoints(han, fu int) int {
	base := fu * (1 << uint(2+han))
	const manganBase = 2000
	if base > manganBase {
		base = manganBase
	}
	return base
}

// fixedBaseForHan returns the capped base-point unit for han >= 5
// (mangan through yakuman-adjacent sanbaiman), expressed as the same
// base-point unit basePoints() returns for han < 5, so callers share one
// payout formula.
func fixedBaseForHan(han int) int {
	switch {
	case han >= 13:
		return 8000 // counted yakuman; yaku-based yakuman are scored from yakuman units in settleAgari
	case han >= 11:
		return 6000 // sanbaiman
	case han >= 8:
		return 4000 // baiman
	case han >= 6:
		return 3000 // haneman
	default:
		return 2000 // mangan (han 5)
	}
}

// Payout is one payer's contribution to a winner's points.
type Payout struct {
	Payer  int
	Points int
}

// settleAgari computes a winner's han, fu, and base points (the "base"
// in base * 2^(han+2), or the yakuman/mangan-tier fixed unit) from the
// already-chosen best-scoring decomposition's yaku results. The caller
// turns base into actual payer amounts via tsumoShares or the ron
// formula (6x dealer / 4x non-dealer, rounded up to 100).
func settleAgari(in AgariInput, results []YakuResult) (han, fu, base int, isYakuman bool) {
	fu, _, _ = computeFu(in)
	han, isYakuman = TotalHan(results)
	if !isYakuman {
		han += in.DoraHan()
	}

	switch {
	case isYakuman:
		base = 8000 * han // han here is yakumanUnits per TotalHan's contract
	case han >= 5:
		base = fixedBaseForHan(han)
	default:
		base = basePoints(han, fu)
	}
	return han, fu, base, isYakuman
}

// ronPoints is the single payer's payment for a ron win.
func ronPoints(base int, isDealer bool) int {
	if isDealer {
		return roundUpTo100(base * 6)
	}
	return roundUpTo100(base * 4)
}

// tsumoShares splits a self-draw win into each opponent's individual
// payment: dealer pays double, everyone rounds up to the next 100.
func tsumoShares(base int, winner, button int) []Payout {
	var out []Payout
	for p := 0; p < 4; p++ {
		if p == winner {
			continue
		}
		share := base
		if p == button || winner == button {
			share = base * 2
		}
		out = append(out, Payout{Payer: p, Points: roundUpTo100(share)})
	}
	return out
}
