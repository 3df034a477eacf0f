package mahjong

// Yaku enumerates every standard scoring pattern this engine recognizes.
type Yaku int

const (
	Menzenchintsumohou Yaku = iota
	Riichi
	Ippatsu
	Chankan
	Rinshankaihou
	Haiteimouyue
	Houteiraoyui
	Pinfu
	Tanyaochuu
	Iipeikou
	JikazehaiE
	JikazehaiS
	JikazehaiW
	JikazehaiN
	BakazehaiE
	BakazehaiS
	BakazehaiW
	BakazehaiN
	SangenpaiHaku
	SangenpaiHatsu
	SangenpaiChun
	DoubleRiichi
	Chiitoitsu
	Honchantaiyaochuu
	Ikkitsuukan
	Sanshokudoujun
	Sanshokudoukou
	Sankantsu
	Toitoihou
	Sannankou
	Shousangen
	Honroutou
	Ryanpeikou
	Junchantaiyaochuu
	Honniisou
	Chinniisou
	Tenhou
	Chiihou
	Daisangen
	Suuankou
	SuuankouTanki
	Tsuuiisou
	Ryuuiisou
	Chinroutou
	Chuurenpoutou
	Junseichuurenpoutou
	Kokushi
	Kokushi13
	Daisuushi
	Shousuushi
	Suukantsu
)

func (y Yaku) String() string {
	names := [...]string{
		"Menzenchintsumohou", "Riichi", "Ippatsu", "Chankan", "Rinshankaihou",
		"Haiteimouyue", "Houteiraoyui", "Pinfu", "Tanyaochuu", "Iipeikou",
		"JikazehaiE", "JikazehaiS", "JikazehaiW", "JikazehaiN",
		"BakazehaiE", "BakazehaiS", "BakazehaiW", "BakazehaiN",
		"SangenpaiHaku", "SangenpaiHatsu", "SangenpaiChun",
		"DoubleRiichi", "Chiitoitsu", "Honchantaiyaochuu", "Ikkitsuukan",
		"Sanshokudoujun", "Sanshokudoukou", "Sankantsu", "Toitoihou",
		"Sannankou", "Shousangen", "Honroutou", "Ryanpeikou",
		"Junchantaiyaochuu", "Honniisou", "Chinniisou", "Tenhou", "Chiihou",
		"Daisangen", "Suuankou", "SuuankouTanki", "Tsuuiisou", "Ryuuiisou",
		"Chinroutou", "Chuurenpoutou", "Junseichuurenpoutou", "Kokushi",
		"Kokushi13", "Daisuushi", "Shousuushi", "Suukantsu",
	}
	if int(y) < 0 || int(y) >= len(names) {
		return "Invalid"
	}
	return names[y]
}

// YakuResult is one detected yaku and its han value. A negative Han is
// the yakuman sentinel: -1 is a single yakuman, stacked yakuman (e.g. a
// hypothetical double-yakuman ruleset) would use a larger magnitude; this
// engine never emits anything past -1, matching the upstream TODOs for
// double-yakuman scoring.
type YakuResult struct {
	Yaku Yaku
	Han  int
}

type yakuBuilder struct {
	results []YakuResult
}

func (b *yakuBuilder) add(y Yaku, han int) {
	b.results = append(b.results, YakuResult{Yaku: y, Han: han})
}

// AgariKind distinguishes a self-draw win from a steal.
type AgariKind int

const (
	AgariTsumo AgariKind = iota
	AgariRon
)

// AgariInput bundles everything the yaku detectors need about the
// winning hand. Built by the engine at Agari resolution time.
type AgariInput struct {
	Winner          int
	Button          int // dealer seat this round
	RoundWind       int // 0=E,1=S,2=W,3=N
	Melds           []Meld
	AllTiles        TileSet37 // every tile in the complete 14-tile hand, closed + melds
	IsClosed        bool
	AgariKind       AgariKind
	IncomingMeld    *Meld
	ActionIsKan     bool
	NumDraws        int
	MaxNumDraws     int
	IsInitAbortable bool // no calls have interrupted the first go-around
	RiichiFlags     RiichiFlags
	WinningTile     Tile
	RegularWait     *RegularWait
	Irregular       *IrregularWait
	// DoraIndicators are the currently-revealed dora indicator tiles
	// (one plus one per kan called this round). UraDoraIndicators are
	// their matched ura counterparts, only ever counted for a winner
	// under active riichi.
	DoraIndicators    []Tile
	UraDoraIndicators []Tile
}

// countDoraHan counts, over all, how many tiles each indicator's
// indicated tile matches — the bonus-counting mechanism behind dora.
func countDoraHan(all TileSet37, indicators []Tile) int {
	n := 0
	for _, ind := range indicators {
		target := DoraTile(ind).NormalEncoding()
		for enc := 0; enc < 37; enc++ {
			if Tile(enc).NormalEncoding() == target {
				n += int(all[enc])
			}
		}
	}
	return n
}

// countRedDora counts the red-five tiles present in all: "red fives
// count as dora" (glossary), independent of any indicator.
func countRedDora(all TileSet37) int {
	return int(all[34]) + int(all[35]) + int(all[36])
}

// DoraHan is the total non-yaku han contributed by dora, red dora, and
// (for a riichi winner) ura-dora. Dora never supplies the hand's
// required yaku and never applies to a yakuman win.
func (in AgariInput) DoraHan() int {
	n := countDoraHan(in.AllTiles, in.DoraIndicators) + countRedDora(in.AllTiles)
	if in.RiichiFlags.IsActive {
		n += countDoraHan(in.AllTiles, in.UraDoraIndicators)
	}
	return n
}

func selfWindForPlayer(button, player int) int {
	return (player - button + 4) % 4
}

func sort3(a, b, c uint8) (uint8, uint8, uint8) {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return a, b, c
}

func countRange(h TileSet37, lo, hi int) int {
	n := 0
	for i := lo; i < hi; i++ {
		n += int(h[i])
	}
	return n
}

func mCount(h TileSet37) int { return countRange(h, 0, 9) + int(h[34]) }
func pCount(h TileSet37) int { return countRange(h, 9, 18) + int(h[35]) }
func sCount(h TileSet37) int { return countRange(h, 18, 27) + int(h[36]) }
func zCount(h TileSet37) int { return countRange(h, 27, 34) }

// pureTerminalCount counts 1s and 9s only (not honors); red fives never
// qualify since they sit at num=5.
func pureTerminalCount(h TileSet37) int {
	n := 0
	for _, suitBase := range []int{0, 9, 18} {
		n += int(h[suitBase]) + int(h[suitBase+8])
	}
	return n
}

func honorCount(h TileSet37) int { return countRange(h, 27, 34) }

// greenCount counts tiles valid for ryuuiisou: 2,3,4,6,8 sou and green
// dragon. Red 5s are excluded (5 sou is not green-eligible regardless).
func greenCount(h TileSet37) int {
	n := 0
	for _, num := range []int{2, 3, 4, 6, 8} {
		n += int(h[18+num-1])
	}
	n += int(h[32]) // green dragon
	return n
}

// detectPinfu adds Pinfu when the closed hand carries no extra fu, i.e.
// all shuntsu, a ryanmen wait, and a non-yakuhai pair — extraFu is
// computed by the scorer and passed in.
func detectPinfu(b *yakuBuilder, extraFu int, isClosed bool) {
	if isClosed && extraFu == 0 {
		b.add(Pinfu, 1)
	}
}

func detectIrregularYaku(b *yakuBuilder, irregular IrregularWait) {
	switch irregular.Kind {
	case WaitSevenPairsKind:
		b.add(Chiitoitsu, 2)
	case WaitThirteenOrphansKind:
		b.add(Kokushi, -1)
	case WaitThirteenOrphans13Kind:
		b.add(Kokushi13, -1)
	}
}

func detectRiichi(b *yakuBuilder, flags RiichiFlags) {
	if !flags.IsActive {
		return
	}
	if flags.IsDouble {
		b.add(DoubleRiichi, 2)
	} else {
		b.add(Riichi, 1)
	}
	if flags.IsIppatsu {
		b.add(Ippatsu, 1)
	}
}

func detectMentsumo(b *yakuBuilder, kind AgariKind, melds []Meld) {
	allClosed := true
	for _, m := range melds {
		if !m.IsClosed() {
			allClosed = false
			break
		}
	}
	if allClosed && kind == AgariTsumo {
		b.add(Menzenchintsumohou, 1)
	}
}

func detectRinshan(b *yakuBuilder, kind AgariKind, incoming *Meld) {
	if incoming != nil && incoming.IsKan() && kind == AgariTsumo {
		b.add(Rinshankaihou, 1)
	}
}

func detectChankan(b *yakuBuilder, actionIsKan bool, kind AgariKind) {
	if kind == AgariRon && actionIsKan {
		b.add(Chankan, 1)
	}
}

// detectLastChance adds Haiteimouyue/Houteiraoyui when winning on the
// very last tile of the wall. Rinshan overrides haitei: the caller
// should not call this when detectRinshan already fired (the engine
// only invokes one winning-tile yaku path per agari).
func detectLastChance(b *yakuBuilder, numDraws, maxDraws int, kind AgariKind) {
	if numDraws != maxDraws {
		return
	}
	if kind == AgariTsumo {
		b.add(Haiteimouyue, 1)
	} else {
		b.add(Houteiraoyui, 1)
	}
}

func detectFirstChance(b *yakuBuilder, winner, button int, initAbortable bool, kind AgariKind) {
	if !initAbortable {
		return
	}
	if kind == AgariTsumo {
		if winner == button {
			b.add(Tenhou, -1)
		} else {
			b.add(Chiihou, -1)
		}
	}
	// Ron on the first uninterrupted go-around (renhou) is deliberately
	// left unset: the standard yaku set does not include it.
}

func detectHandOnlyYakus(b *yakuBuilder, all TileSet37, isClosed, allowKuitan bool) {
	numM, numP, numS, numZ := mCount(all), pCount(all), sCount(all), zCount(all)
	oneNine := pureTerminalCount(all)
	numTiles := numM + numP + numS + numZ

	switch {
	case greenCount(all) == numTiles:
		b.add(Ryuuiisou, -1)
	case numZ+oneNine == 0:
		if isClosed || allowKuitan {
			b.add(Tanyaochuu, 1)
		}
	case numZ == numTiles:
		b.add(Tsuuiisou, -1)
	case oneNine == numTiles:
		b.add(Chinroutou, -1)
	case numZ+oneNine == numTiles:
		b.add(Honroutou, 2)
	}

	if all[31] >= 3 {
		b.add(SangenpaiHaku, 1)
	}
	if all[32] >= 3 {
		b.add(SangenpaiHatsu, 1)
	}
	if all[33] >= 3 {
		b.add(SangenpaiChun, 1)
	}

	d0, d1, _ := sort3(all[31], all[32], all[33])
	if d0 >= 3 {
		b.add(Daisangen, -1)
	} else if d0 == 2 && d1 >= 3 {
		b.add(Shousangen, 2)
	} else {
		winds := []uint8{all[27], all[28], all[29], all[30]}
		sort4Ascending(winds)
		if winds[0] >= 3 {
			b.add(Daisuushi, -1)
		} else if winds[0] == 2 && winds[1] >= 3 {
			b.add(Shousuushi, -1)
		}
	}

	_, b2, c2 := sort3(uint8(numM), uint8(numP), uint8(numS))
	if b2 == 0 && c2 > 0 {
		if numZ == 0 {
			b.add(Chinniisou, hanIf(isClosed, 6, 5))
		} else {
			b.add(Honniisou, hanIf(isClosed, 3, 2))
		}
	}
}

func sort4Ascending(a []uint8) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

func hanIf(cond bool, ifTrue, ifFalse int) int {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func detectWinds(b *yakuBuilder, all TileSet37, roundWind, button, winner int) {
	roundWindTile := [4]Yaku{BakazehaiE, BakazehaiS, BakazehaiW, BakazehaiN}[roundWind]
	if all[27+roundWind] >= 3 {
		b.add(roundWindTile, 1)
	}
	seatWind := selfWindForPlayer(button, winner)
	seatWindTile := [4]Yaku{JikazehaiE, JikazehaiS, JikazehaiW, JikazehaiN}[seatWind]
	if all[27+seatWind] >= 3 {
		b.add(seatWindTile, 1)
	}
}

func detectChuuren(b *yakuBuilder, allPacked [4]uint32, winningTile Tile, isClosed bool) {
	if !isClosed || winningTile.Suit() == SuitHonor {
		return
	}
	h := allPacked[winningTile.Suit()]
	const base = 0o311111113
	const mask = 0o444444444
	if (h+0o133333331)&mask != mask {
		return
	}
	r := h - base
	if r&(r-1) != 0 || r == 0 {
		return // not a power of two; invariant violated upstream, ignore defensively
	}
	rPos := 0
	for (r>>uint(rPos*3))&0o7 == 0 {
		rPos++
	}
	if rPos == winningTile.NormalNum()-1 {
		b.add(Junseichuurenpoutou, -1)
	} else {
		b.add(Chuurenpoutou, -1)
	}
}

func detectAnkou(b *yakuBuilder, kind AgariKind, melds []Meld, rw *RegularWait, waitGroup *HandGroup, waitGroupOK bool) {
	numAnkou := 0
	for _, m := range melds {
		if m.Kind == MeldAnkan {
			numAnkou++
		}
	}
	for _, g := range rw.Groups {
		if g.Kind == GroupKoutsu {
			numAnkou++
		}
	}
	// A koutsu completed by the winning tile only counts as concealed on
	// a self-draw; ron makes it an open triplet for ankou purposes.
	if waitGroupOK && waitGroup.Kind == GroupKoutsu && kind == AgariTsumo {
		numAnkou++
	}
	switch numAnkou {
	case 4:
		if rw.Kind == WaitTanki {
			b.add(SuuankouTanki, -1)
		} else {
			b.add(Suuankou, -1)
		}
	case 3:
		b.add(Sannankou, 2)
	}
}

func detectKan(b *yakuBuilder, melds []Meld) {
	numKan := 0
	for _, m := range melds {
		if m.IsKan() {
			numKan++
		}
	}
	switch numKan {
	case 4:
		b.add(Suukantsu, -1)
	case 3:
		b.add(Sankantsu, 2)
	}
}

func meldEquivalentGroup(m Meld) (HandGroup, bool) {
	switch m.Kind {
	case MeldChii:
		return HandGroup{GroupShuntsu, m.Min}, true
	case MeldPon, MeldKakan, MeldDaiminkan, MeldAnkan:
		return HandGroup{GroupKoutsu, m.NormalTile()}, true
	default:
		return HandGroup{}, false
	}
}

func detectToitoi(b *yakuBuilder, melds []Meld, rw *RegularWait, waitGroup *HandGroup, waitGroupOK bool) {
	for _, m := range melds {
		if m.Kind == MeldChii {
			return
		}
	}
	for _, g := range rw.Groups {
		if g.Kind != GroupKoutsu {
			return
		}
	}
	if waitGroupOK && waitGroup.Kind == GroupShuntsu {
		return
	}
	b.add(Toitoihou, 2)
}

func detectShuntsu(b *yakuBuilder, melds []Meld, rw *RegularWait, waitGroup *HandGroup, waitGroupOK, isClosed bool) {
	present := map[Tile]bool{}
	peikou := map[Tile]bool{}
	numPeikou := 0
	update := func(t Tile) {
		if peikou[t] {
			delete(peikou, t)
			numPeikou++
		} else {
			peikou[t] = true
		}
		present[t] = true
	}
	for _, m := range melds {
		if g, ok := meldEquivalentGroup(m); ok && g.Kind == GroupShuntsu {
			update(g.Tile)
		}
	}
	for _, g := range rw.Groups {
		if g.Kind == GroupShuntsu {
			update(g.Tile)
		}
	}
	if waitGroupOK && waitGroup.Kind == GroupShuntsu {
		update(waitGroup.Tile)
	}

	if isClosed {
		switch numPeikou {
		case 1:
			b.add(Iipeikou, 1)
		case 2:
			b.add(Ryanpeikou, 3)
		}
	}

	for _, base := range []int{0, 9, 18} {
		if present[Tile(base)] && present[Tile(base+3)] && present[Tile(base+6)] {
			b.add(Ikkitsuukan, hanIf(isClosed, 2, 1))
			break
		}
	}
	for n := 0; n < 9; n++ {
		if present[Tile(n)] && present[Tile(9+n)] && present[Tile(18+n)] {
			b.add(Sanshokudoujun, hanIf(isClosed, 2, 1))
			break
		}
	}
}

func detectSanshokudoukou(b *yakuBuilder, melds []Meld, rw *RegularWait, waitGroup *HandGroup, waitGroupOK bool) {
	present := map[Tile]bool{}
	for _, m := range melds {
		if g, ok := meldEquivalentGroup(m); ok && g.Kind == GroupKoutsu {
			present[g.Tile] = true
		}
	}
	for _, g := range rw.Groups {
		if g.Kind == GroupKoutsu {
			present[g.Tile] = true
		}
	}
	if waitGroupOK && waitGroup.Kind == GroupKoutsu {
		present[waitGroup.Tile] = true
	}
	for n := 0; n < 9; n++ {
		if present[Tile(n)] && present[Tile(9+n)] && present[Tile(18+n)] {
			b.add(Sanshokudoukou, 2)
			return
		}
	}
}

func isChanta(g HandGroup) bool {
	t := g.Tile
	switch g.Kind {
	case GroupKoutsu:
		return isTerminalOrHonor(t)
	default: // Shuntsu: min tile must be 1 or 7 so the run touches a terminal
		return t.NormalNum() == 1 || t.NormalNum() == 7
	}
}

func detectChanta(b *yakuBuilder, melds []Meld, all TileSet37, rw *RegularWait, waitGroup *HandGroup, waitGroupOK, isClosed bool) {
	hasShuntsu := false
	for _, m := range melds {
		g, ok := meldEquivalentGroup(m)
		if !ok || !isChanta(g) {
			return
		}
		hasShuntsu = hasShuntsu || g.Kind == GroupShuntsu
	}
	for _, g := range rw.Groups {
		if !isChanta(g) {
			return
		}
		hasShuntsu = hasShuntsu || g.Kind == GroupShuntsu
	}
	if waitGroupOK {
		if !isChanta(*waitGroup) {
			return
		}
		hasShuntsu = hasShuntsu || waitGroup.Kind == GroupShuntsu
	}
	if !hasShuntsu {
		// All-triplet terminal/honor hands score as honroutou or
		// chinroutou instead.
		return
	}
	if !isTerminalOrHonor(effectivePair(rw)) {
		return
	}
	if honorCount(all) == 0 {
		b.add(Junchantaiyaochuu, hanIf(isClosed, 3, 2))
	} else {
		b.add(Honchantaiyaochuu, hanIf(isClosed, 2, 1))
	}
}

// DetectYakus runs every detector applicable to in and returns every
// yaku that fired. rules only supplies AllowKuitan to the tanyao check;
// the allow/block lists are applied afterwards by the caller (FilterYaku),
// before han is totalled.
func DetectYakus(rules Ruleset, in AgariInput, extraFu int) []YakuResult {
	var b yakuBuilder

	if in.Irregular != nil {
		detectIrregularYaku(&b, *in.Irregular)
	} else if in.RegularWait != nil {
		detectPinfu(&b, extraFu, in.IsClosed)
	}

	detectRiichi(&b, in.RiichiFlags)
	detectMentsumo(&b, in.AgariKind, in.Melds)
	isRinshan := in.AgariKind == AgariTsumo && in.IncomingMeld != nil && in.IncomingMeld.IsKan()
	detectRinshan(&b, in.AgariKind, in.IncomingMeld)
	detectChankan(&b, in.ActionIsKan, in.AgariKind)
	// Rinshan overrides haitei: a replacement draw taken once the live
	// wall is already spent must not double-count as the last draw.
	if !isRinshan {
		detectLastChance(&b, in.NumDraws, in.MaxNumDraws, in.AgariKind)
	}
	detectFirstChance(&b, in.Winner, in.Button, in.IsInitAbortable, in.AgariKind)
	detectHandOnlyYakus(&b, in.AllTiles, in.IsClosed, rules.AllowKuitan)

	if in.RegularWait != nil {
		rw := in.RegularWait
		waitGroup, waitGroupOK := rw.WaitGroup()
		var wgPtr *HandGroup
		if waitGroupOK {
			wgPtr = &waitGroup
		}
		detectWinds(&b, in.AllTiles, in.RoundWind, in.Button, in.Winner)
		detectChuuren(&b, NewTileSet34From37(in.AllTiles).Packed(), in.WinningTile, in.IsClosed)
		detectAnkou(&b, in.AgariKind, in.Melds, rw, wgPtr, waitGroupOK)
		detectKan(&b, in.Melds)
		detectToitoi(&b, in.Melds, rw, wgPtr, waitGroupOK)
		detectShuntsu(&b, in.Melds, rw, wgPtr, waitGroupOK, in.IsClosed)
		detectSanshokudoukou(&b, in.Melds, rw, wgPtr, waitGroupOK)
		detectChanta(&b, in.Melds, in.AllTiles, rw, wgPtr, waitGroupOK, in.IsClosed)
	}

	return b.results
}

// FilterYaku applies the ruleset's allow/block lists, dropping any result
// the ruleset disables.
func FilterYaku(rules Ruleset, results []YakuResult) []YakuResult {
	var out []YakuResult
	for _, r := range results {
		if rules.yakuEnabled(r.Yaku) {
			out = append(out, r)
		}
	}
	return out
}

// TotalHan sums han across results. If any result is a yakuman
// (negative Han), the return is the yakuman unit count (as a positive
// number) and isYakuman=true; non-yakuman results are ignored in that case,
// since a yakuman hand's score never blends with ordinary han.
func TotalHan(results []YakuResult) (han int, isYakuman bool) {
	yakumanUnits := 0
	for _, r := range results {
		if r.Han < 0 {
			yakumanUnits += -r.Han
		}
	}
	if yakumanUnits > 0 {
		return yakumanUnits, true
	}
	for _, r := range results {
		han += r.Han
	}
	return han, false
}
