package mahjong

// Decomposer enumerates the ways a closed hand can be parsed into complete
// groups, a pair, and (for a 13-tile waiting hand) exactly one incomplete
// element — the wait. The algorithm is leftmost-tile-first recursive
// backtracking: fully resolve each leftmost nonzero tile (as a koutsu,
// shuntsu, or pair) before moving on. Per-suit group boundaries fall out
// naturally: a group or pair only ever touches tiles at or adjacent to its
// anchor, so scanning left to right and fully resolving each leftmost
// nonzero tile before moving on is complete without cross-suit leakage.
type Decomposer struct{}

// NewDecomposer returns a ready-to-use Decomposer. It holds no state; the
// type exists to leave room for a future result cache without changing
// the call sites.
func NewDecomposer() *Decomposer { return &Decomposer{} }

// HandGroupKind distinguishes a complete triplet from a complete run.
type HandGroupKind int

const (
	GroupKoutsu HandGroupKind = iota
	GroupShuntsu
)

// HandGroup is one complete 3-tile group. Tile is the (normal-encoded)
// triplet tile for a Koutsu, or the lowest tile of the run for a Shuntsu.
type HandGroup struct {
	Kind HandGroupKind
	Tile Tile
}

// WaitingKind names the shape of the single incomplete element in a
// RegularWait.
type WaitingKind int

const (
	WaitTanki WaitingKind = iota
	WaitShanpon
	WaitKanchan
	WaitPenchan
	WaitRyanmen
)

func (k WaitingKind) String() string {
	switch k {
	case WaitTanki:
		return "Tanki"
	case WaitShanpon:
		return "Shanpon"
	case WaitKanchan:
		return "Kanchan"
	case WaitPenchan:
		return "Penchan"
	case WaitRyanmen:
		return "Ryanmen"
	default:
		return "Invalid"
	}
}

// RegularWait is one decomposition of a waiting hand: some complete
// groups, a pair (meaningless for Tanki, where the wait tile doubles as
// the eventual pair; for Shanpon, Pair is the *other* pair — the one that
// does not need completing), a waiting kind, and the single tile that
// completes the hand. A Ryanmen or Shanpon wait has two possible
// completions, so the decomposer emits two separate RegularWait entries
// for it rather than collapsing them — both may matter to yaku detection
// (e.g. ryanpeikou vs. ikkitsuukan can disagree about the very same tiles).
type RegularWait struct {
	Groups   []HandGroup
	Pair     Tile
	Kind     WaitingKind
	WaitTile Tile
	// GroupMin is the minimum tile of the group the winning tile would
	// complete: for Shanpon, WaitTile itself (the completed koutsu); for
	// Kanchan/Penchan/Ryanmen, the minimum tile of the resulting
	// shuntsu. Meaningless for Tanki, which completes the pair, not a
	// group.
	GroupMin Tile
}

// WaitGroup returns the HandGroup the winning tile completes, if any.
// Tanki completes the pair, not a group, so it reports ok=false.
func (rw RegularWait) WaitGroup() (HandGroup, bool) {
	switch rw.Kind {
	case WaitTanki:
		return HandGroup{}, false
	case WaitShanpon:
		return HandGroup{GroupKoutsu, rw.WaitTile}, true
	default:
		return HandGroup{GroupShuntsu, rw.GroupMin}, true
	}
}

// IrregularKind distinguishes the two irregular hand shapes.
type IrregularKind int

const (
	WaitSevenPairsKind IrregularKind = iota
	WaitThirteenOrphansKind
	WaitThirteenOrphans13Kind
)

// IrregularWait is a seven-pairs or thirteen-orphans decomposition.
// WaitTiles holds every tile that would complete the hand: exactly one
// for seven-pairs and the single-wait thirteen-orphans case, all 13
// kokushi tiles for the "13-way wait" case.
type IrregularWait struct {
	Kind      IrregularKind
	WaitTiles []Tile
}

var kokushiTiles = [13]int{0, 8, 9, 17, 18, 26, 27, 28, 29, 30, 31, 32, 33}

func isKokushiTile(i int) bool {
	switch i {
	case 0, 8, 9, 17, 18, 26, 27, 28, 29, 30, 31, 32, 33:
		return true
	default:
		return false
	}
}

func leftmostNonzero(h [34]uint8) int {
	for i := 0; i < 34; i++ {
		if h[i] > 0 {
			return i
		}
	}
	return -1
}

func appendGroup(groups []HandGroup, g HandGroup) []HandGroup {
	out := make([]HandGroup, len(groups)+1)
	copy(out, groups)
	out[len(groups)] = g
	return out
}

func appendTile(tiles []Tile, t Tile) []Tile {
	out := make([]Tile, len(tiles)+1)
	copy(out, tiles)
	out[len(tiles)] = t
	return out
}

// enumerateComplete backtracks over the leftmost nonzero tile, peeling
// off koutsu/shuntsu groups (while groupsNeeded > 0) and pairs (while
// pairsNeeded > 0), and invokes cb for every way the histogram is
// consumed exactly — both quotas at zero and no tile left over. Fully
// resolving the leftmost nonzero tile before moving on is complete for
// exact consumption: every tile must join some structure, and every
// structure touching tile i is anchored at or below i.
func enumerateComplete(h [34]uint8, groupsNeeded, pairsNeeded int, groups []HandGroup, pairs []Tile, cb func(groups []HandGroup, pairs []Tile)) {
	i := leftmostNonzero(h)
	if i == -1 {
		if groupsNeeded == 0 && pairsNeeded == 0 {
			cb(groups, pairs)
		}
		return
	}
	isHonor := i >= 27
	if groupsNeeded > 0 && h[i] >= 3 {
		h2 := h
		h2[i] -= 3
		enumerateComplete(h2, groupsNeeded-1, pairsNeeded, appendGroup(groups, HandGroup{GroupKoutsu, Tile(i)}), pairs, cb)
	}
	if groupsNeeded > 0 && !isHonor && i%9 <= 6 && h[i] >= 1 && h[i+1] >= 1 && h[i+2] >= 1 {
		h2 := h
		h2[i]--
		h2[i+1]--
		h2[i+2]--
		enumerateComplete(h2, groupsNeeded-1, pairsNeeded, appendGroup(groups, HandGroup{GroupShuntsu, Tile(i)}), pairs, cb)
	}
	if pairsNeeded > 0 && h[i] >= 2 {
		h2 := h
		h2[i] -= 2
		enumerateComplete(h2, groupsNeeded, pairsNeeded-1, groups, appendTile(pairs, Tile(i)), cb)
	}
}

// RegularWaits enumerates every regular-shape decomposition of a closed
// hand that is one tile short of complete, given the number of groups
// already satisfied by open melds (0..3). Each wait shape is found by
// first removing its incomplete element (the candidate singleton, taatsu,
// or second pair) and then requiring the rest of the hand to decompose
// exactly — this keeps the leftmost-first enumerator complete even when
// the incomplete element sits below the groups in tile order.
func (d *Decomposer) RegularWaits(h34 TileSet34, openGroups int) []RegularWait {
	var h [34]uint8 = h34
	groupsNeeded := 4 - openGroups
	var results []RegularWait

	// Tanki: remove the candidate wait tile (which doubles as the
	// eventual pair); the rest must be exactly groupsNeeded groups.
	for t := 0; t < 34; t++ {
		if h[t] == 0 {
			continue
		}
		h2 := h
		h2[t]--
		enumerateComplete(h2, groupsNeeded, 0, nil, nil, func(groups []HandGroup, _ []Tile) {
			results = append(results, RegularWait{Groups: groups, Kind: WaitTanki, WaitTile: Tile(t)})
		})
	}

	// Kanchan / Penchan / Ryanmen: remove a two-tile same-suit taatsu;
	// the rest must be groupsNeeded-1 groups plus the pair. Honors admit
	// no sequences, so taatsu candidates stop at the suit boundary.
	if groupsNeeded >= 1 {
		for j := 0; j < 27; j++ {
			for _, k := range [2]int{j + 1, j + 2} {
				if k >= 27 || k/9 != j/9 || h[j] == 0 || h[k] == 0 {
					continue
				}
				h2 := h
				h2[j]--
				h2[k]--
				enumerateComplete(h2, groupsNeeded-1, 1, nil, nil, func(groups []HandGroup, pairs []Tile) {
					pairTile := pairs[0]
					if k == j+1 {
						switch n := j % 9; {
						case n == 0:
							results = append(results, RegularWait{Groups: groups, Pair: pairTile, Kind: WaitPenchan, WaitTile: Tile(j + 2), GroupMin: Tile(j)})
						case n == 7:
							results = append(results, RegularWait{Groups: groups, Pair: pairTile, Kind: WaitPenchan, WaitTile: Tile(j - 1), GroupMin: Tile(j - 1)})
						default:
							results = append(results, RegularWait{Groups: groups, Pair: pairTile, Kind: WaitRyanmen, WaitTile: Tile(j - 1), GroupMin: Tile(j - 1)})
							results = append(results, RegularWait{Groups: groups, Pair: pairTile, Kind: WaitRyanmen, WaitTile: Tile(k + 1), GroupMin: Tile(j)})
						}
					} else {
						results = append(results, RegularWait{Groups: groups, Pair: pairTile, Kind: WaitKanchan, WaitTile: Tile(j + 1), GroupMin: Tile(j)})
					}
				})
			}
		}
	}

	// Shanpon: remove two candidate pairs; the rest must be
	// groupsNeeded-1 groups. Either pair can become the triplet.
	if groupsNeeded >= 1 {
		for p := 0; p < 34; p++ {
			if h[p] < 2 {
				continue
			}
			for q := p + 1; q < 34; q++ {
				if h[q] < 2 {
					continue
				}
				h2 := h
				h2[p] -= 2
				h2[q] -= 2
				enumerateComplete(h2, groupsNeeded-1, 0, nil, nil, func(groups []HandGroup, _ []Tile) {
					results = append(results, RegularWait{Groups: groups, Pair: Tile(q), Kind: WaitShanpon, WaitTile: Tile(p), GroupMin: Tile(p)})
					results = append(results, RegularWait{Groups: groups, Pair: Tile(p), Kind: WaitShanpon, WaitTile: Tile(q), GroupMin: Tile(q)})
				})
			}
		}
	}

	return results
}

// IsAgariRegular reports whether the closed hand (14 tiles minus
// 3*openGroups) is a complete regular hand: groupsNeeded groups plus a
// pair, with nothing left over.
func (d *Decomposer) IsAgariRegular(h34 TileSet34, openGroups int) bool {
	var h [34]uint8 = h34
	groupsNeeded := 4 - openGroups
	found := false
	enumerateComplete(h, groupsNeeded, 1, nil, nil, func(_ []HandGroup, _ []Tile) {
		found = true
	})
	return found
}

// IsAgariChiitoitsu reports whether the (fully closed) hand is a complete
// seven-pairs hand: 7 distinct tiles each appearing exactly twice.
func (d *Decomposer) IsAgariChiitoitsu(h34 TileSet34) bool {
	pairs := 0
	for _, c := range h34 {
		switch c {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 7
}

// SevenPairsWaits reports the seven-pairs wait, if the 13-tile hand is one
// tile short of complete (six distinct pairs plus a singleton).
func (d *Decomposer) SevenPairsWaits(h34 TileSet34) []IrregularWait {
	pairs, singleton := 0, -1
	for i, c := range h34 {
		switch c {
		case 0:
		case 1:
			if singleton != -1 {
				return nil
			}
			singleton = i
		case 2:
			pairs++
		default:
			return nil
		}
	}
	if pairs == 6 && singleton != -1 {
		return []IrregularWait{{Kind: WaitSevenPairsKind, WaitTiles: []Tile{Tile(singleton)}}}
	}
	return nil
}

// IsAgariKokushi reports whether the (fully closed) hand is a complete
// thirteen-orphans hand.
func (d *Decomposer) IsAgariKokushi(h34 TileSet34) bool {
	for i, c := range h34 {
		if c > 0 && !isKokushiTile(i) {
			return false
		}
	}
	doubled := 0
	for _, k := range kokushiTiles {
		c := h34[k]
		if c == 0 {
			return false
		}
		if c >= 2 {
			doubled++
		}
		if c > 2 {
			return false
		}
	}
	return doubled == 1
}

// ThirteenOrphansWaits reports the thirteen-orphans wait(s) for a 13-tile
// hand: either the single missing tile, or — if all 13 are already
// present — all 13 as the "13-way wait".
func (d *Decomposer) ThirteenOrphansWaits(h34 TileSet34) []IrregularWait {
	for i, c := range h34 {
		if c > 0 && !isKokushiTile(i) {
			return nil
		}
	}
	zero, one, twoPlus, missing := 0, 0, 0, -1
	for _, k := range kokushiTiles {
		switch c := h34[k]; {
		case c == 0:
			zero++
			missing = k
		case c == 1:
			one++
		default:
			twoPlus++
		}
	}
	if zero == 0 && one == 13 {
		waits := make([]Tile, 13)
		for i, k := range kokushiTiles {
			waits[i] = Tile(k)
		}
		return []IrregularWait{{Kind: WaitThirteenOrphans13Kind, WaitTiles: waits}}
	}
	if zero == 1 && twoPlus == 1 && one == 11 {
		return []IrregularWait{{Kind: WaitThirteenOrphansKind, WaitTiles: []Tile{Tile(missing)}}}
	}
	return nil
}

// IrregularWaits returns both the seven-pairs and thirteen-orphans waits
// applicable to a 13-tile closed hand (only meaningful with no open
// melds).
func (d *Decomposer) IrregularWaits(h34 TileSet34) []IrregularWait {
	var out []IrregularWait
	out = append(out, d.SevenPairsWaits(h34)...)
	out = append(out, d.ThirteenOrphansWaits(h34)...)
	return out
}

// WaitingTiles is the union, over every decomposition (regular and, when
// fully closed, irregular), of the tile that would complete the hand.
func (d *Decomposer) WaitingTiles(h34 TileSet34, openGroups int) []Tile {
	seen := map[Tile]bool{}
	var out []Tile
	add := func(t Tile) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, rw := range d.RegularWaits(h34, openGroups) {
		add(rw.WaitTile)
	}
	if openGroups == 0 {
		for _, iw := range d.IrregularWaits(h34) {
			for _, t := range iw.WaitTiles {
				add(t)
			}
		}
	}
	return out
}

// IsAgari reports whether the closed hand is a complete winning hand
// under any of the regular, seven-pairs, or (fully closed) thirteen-
// orphans shapes.
func (d *Decomposer) IsAgari(h34 TileSet34, openGroups int) bool {
	if d.IsAgariRegular(h34, openGroups) {
		return true
	}
	if openGroups == 0 && (d.IsAgariChiitoitsu(h34) || d.IsAgariKokushi(h34)) {
		return true
	}
	return false
}
