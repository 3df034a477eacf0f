package mahjong

import (
	"fmt"
	"math/bits"
)

// MeldKind tags the five meld variants. Zero is reserved so a zero-valued
// Meld or PackedMeld is always recognizably invalid.
type MeldKind int

const (
	MeldChii MeldKind = iota + 1
	MeldPon
	MeldKakan
	MeldDaiminkan
	MeldAnkan
)

func (k MeldKind) String() string {
	switch k {
	case MeldChii:
		return "Chii"
	case MeldPon:
		return "Pon"
	case MeldKakan:
		return "Kakan"
	case MeldDaiminkan:
		return "Daiminkan"
	case MeldAnkan:
		return "Ankan"
	default:
		return "Invalid"
	}
}

// Meld is a sum type over the five called/closed group shapes, represented
// as one kind-tagged struct with a value payload rather than an interface
// hierarchy. Which fields are meaningful depends on Kind:
//
//   - Chii: Own[0:2] (sorted), Called, Min, dir derived from Called/Min.
//   - Pon: Own[0:2] (sorted, red-first on tie), Called, dir = relative caller.
//   - Kakan: same as the Pon it promotes, plus Added (the 4th tile, from hand).
//   - Daiminkan: Own[0:3] (sorted), Called, dir = relative caller.
//   - Ankan: Own[0:4] (sorted), no Called (closed).
type Meld struct {
	Kind      MeldKind
	Own       [4]Tile
	NOwn      int
	Called    Tile
	HasCalled bool
	Added     Tile
	Min       Tile
	dir       int
}

// Dir returns the meld's direction field: for Chii, the called tile's
// position within the run (0, 1, or 2); for Pon/Kakan/Daiminkan, the
// seat offset of the discarder from the caller, (discarder - caller) mod 4
// (1=shimocha/right neighbor, 2=toimen, 3=kamicha/left neighbor — any
// nonzero opponent offset is valid except for Chii which only ever calls
// from the left); for Ankan, always 0.
func (m Meld) Dir() int { return m.dir }

// Suit returns the meld's suit (0=m,1=p,2=s,3=honors).
func (m Meld) Suit() int {
	if m.Kind == MeldChii {
		return m.Min.Suit()
	}
	return m.Own[0].Suit()
}

// IsClosed reports whether the meld is concealed (only Ankan).
func (m Meld) IsClosed() bool { return m.Kind == MeldAnkan }

// IsKan reports whether the meld is any of the three kan variants.
func (m Meld) IsKan() bool {
	return m.Kind == MeldKakan || m.Kind == MeldDaiminkan || m.Kind == MeldAnkan
}

// NormalTile returns the single normal-encoded tile shared by all members
// of the group (for Chii, this is Min).
func (m Meld) NormalTile() Tile {
	if m.Kind == MeldChii {
		return m.Min
	}
	return m.Own[0].ToNormal()
}

// ChiiFromTiles constructs a Chii from the caller's own two tiles and the
// called tile. Succeeds iff all three share a suit and their normalized
// numbers form a consecutive run.
func ChiiFromTiles(own0, own1, called Tile) (Meld, bool) {
	suit := called.Suit()
	if own0.Suit() != suit || own1.Suit() != suit || suit == SuitHonor {
		return Meld{}, false
	}
	o0, o1 := own0, own1
	if o0.NormalEncoding() > o1.NormalEncoding() {
		o0, o1 = o1, o0
	}
	na, nb, nc := o0.ToNormal(), o1.ToNormal(), called.ToNormal()
	arr := []Tile{na, nb, nc}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if arr[j] < arr[i] {
				arr[i], arr[j] = arr[j], arr[i]
			}
		}
	}
	x, y, z := arr[0], arr[1], arr[2]
	sy, ok := x.Succ()
	if !ok || sy != y {
		return Meld{}, false
	}
	sz, ok := y.Succ()
	if !ok || sz != z {
		return Meld{}, false
	}
	dir := called.NormalNum() - x.NormalNum()
	return Meld{
		Kind: MeldChii, Own: [4]Tile{o0, o1}, NOwn: 2,
		Called: called, HasCalled: true, Min: x, dir: dir,
	}, true
}

// PonFromTilesDir constructs a Pon from the caller's own two tiles, the
// called tile, and the relative direction of the caller (1..3).
func PonFromTilesDir(own0, own1, called Tile, dir int) (Meld, bool) {
	if own0.NormalEncoding() != own1.NormalEncoding() || own1.NormalEncoding() != called.NormalEncoding() {
		return Meld{}, false
	}
	if dir < 1 || dir > 3 {
		return Meld{}, false
	}
	ownPair := []Tile{own0, own1}
	sortTilesByNormalEncoding(ownPair)
	return Meld{
		Kind: MeldPon, Own: [4]Tile{ownPair[0], ownPair[1]}, NOwn: 2,
		Called: called, HasCalled: true, dir: dir,
	}, true
}

// KakanFromPon promotes an existing Pon to a Kakan using the 4th matching
// tile drawn from the caller's own hand.
func KakanFromPon(pon Meld, added Tile) (Meld, bool) {
	if pon.Kind != MeldPon {
		return Meld{}, false
	}
	if added.NormalEncoding() != pon.Own[0].NormalEncoding() {
		return Meld{}, false
	}
	return Meld{
		Kind: MeldKakan, Own: pon.Own, NOwn: 2,
		Called: pon.Called, HasCalled: true, Added: added, dir: pon.dir,
	}, true
}

// DaiminkanFromTilesDir constructs an open kan from three matching tiles in
// hand plus a called tile from an opponent.
func DaiminkanFromTilesDir(own0, own1, own2, called Tile, dir int) (Meld, bool) {
	ne := called.NormalEncoding()
	if own0.NormalEncoding() != ne || own1.NormalEncoding() != ne || own2.NormalEncoding() != ne {
		return Meld{}, false
	}
	if dir < 1 || dir > 3 {
		return Meld{}, false
	}
	own := []Tile{own0, own1, own2}
	sortTilesByNormalEncoding(own)
	return Meld{
		Kind: MeldDaiminkan, Own: [4]Tile{own[0], own[1], own[2]}, NOwn: 3,
		Called: called, HasCalled: true, dir: dir,
	}, true
}

// AnkanFromTiles constructs a closed kan from four matching tiles in hand.
func AnkanFromTiles(own0, own1, own2, own3 Tile) (Meld, bool) {
	ne := own0.NormalEncoding()
	if own1.NormalEncoding() != ne || own2.NormalEncoding() != ne || own3.NormalEncoding() != ne {
		return Meld{}, false
	}
	own := []Tile{own0, own1, own2, own3}
	sortTilesByNormalEncoding(own)
	return Meld{
		Kind: MeldAnkan, Own: [4]Tile{own[0], own[1], own[2], own[3]}, NOwn: 4,
	}, true
}

// IsInHand reports whether the tiles this meld needs from the closed hand
// (i.e. excluding Called, but including Added for Kakan) are present.
func (m Meld) IsInHand(hand TileSet37) bool {
	need := map[Tile]int{}
	for i := 0; i < m.NOwn; i++ {
		need[m.Own[i]]++
	}
	if m.Kind == MeldKakan {
		need[m.Added]++
	}
	for t, c := range need {
		if int(hand[t.Encoding()]) < c {
			return false
		}
	}
	return true
}

// ConsumeFromHand removes this meld's own (and, for Kakan, added) tiles
// from the closed hand, by their exact stored identity (red or normal).
//
// Each owned tile slot records precisely which physical tile (red or
// normal) occupies it, so consumption simply decrements each slot's own
// encoding individually — there is no ambiguity to resolve and no risk of
// collapsing distinct red/normal counts into a single slot.
func (m Meld) ConsumeFromHand(hand *TileSet37) {
	for i := 0; i < m.NOwn; i++ {
		hand[m.Own[i].Encoding()]--
	}
	if m.Kind == MeldKakan {
		hand[m.Added.Encoding()]--
	}
}

func (m Meld) String() string {
	suit := m.Suit()
	var sc byte
	switch suit {
	case SuitMan:
		sc = 'm'
	case SuitPin:
		sc = 'p'
	case SuitSou:
		sc = 's'
	default:
		sc = 'z'
	}
	switch m.Kind {
	case MeldChii:
		return fmt.Sprintf("C%d%d%d%c", m.Called.Num(), m.Own[0].Num(), m.Own[1].Num(), sc)
	case MeldPon:
		o0, o1, c := m.Own[0].Num(), m.Own[1].Num(), m.Called.Num()
		switch m.dir {
		case 1:
			return fmt.Sprintf("P%d%d%d%c", c, o0, o1, sc)
		case 2:
			return fmt.Sprintf("%dP%d%d%c", o0, c, o1, sc)
		default:
			return fmt.Sprintf("%d%dP%d%c", o0, o1, c, sc)
		}
	case MeldKakan:
		o0, o1, c, a := m.Own[0].Num(), m.Own[1].Num(), m.Called.Num(), m.Added.Num()
		var body string
		switch m.dir {
		case 1:
			body = fmt.Sprintf("P%d%d%d", c, o0, o1)
		case 2:
			body = fmt.Sprintf("%dP%d%d", o0, c, o1)
		default:
			body = fmt.Sprintf("%d%dP%d", o0, o1, c)
		}
		return fmt.Sprintf("%sK%d%c", body, a, sc)
	case MeldDaiminkan:
		n0, n1, n2, c := m.Own[0].Num(), m.Own[1].Num(), m.Own[2].Num(), m.Called.Num()
		switch m.dir {
		case 1:
			return fmt.Sprintf("D%d%d%d%d%c", c, n0, n1, n2, sc)
		case 2:
			return fmt.Sprintf("%dD%d%d%d%c", n0, c, n1, n2, sc)
		default:
			return fmt.Sprintf("%d%d%dD%d%c", n0, n1, n2, c, sc)
		}
	case MeldAnkan:
		return fmt.Sprintf("A%d%d%d%d%c", m.Own[0].Num(), m.Own[1].Num(), m.Own[2].Num(), m.Own[3].Num(), sc)
	default:
		return "Invalid"
	}
}

// PackedMeld is the compact 16-bit codec shared by all five meld kinds:
// bits[5:0] tile, bits[7:6] dir, bits[11:8] red, bits[14:12] kind,
// bit 15 reserved zero. Kind 0 is reserved, so the zero value is always
// invalid.
type PackedMeld uint16

func newPackedMeld(tile, dir, red int, kind MeldKind) PackedMeld {
	return PackedMeld(uint16(tile&0x3F) | uint16(dir&0x3)<<6 | uint16(red&0xF)<<8 | uint16(kind)<<12)
}

// Tile returns the packed anchor tile field (bits 5:0).
func (p PackedMeld) Tile() int { return int(p & 0x3F) }

// Dir returns the packed direction field (bits 7:6).
func (p PackedMeld) Dir() int { return int((p >> 6) & 0x3) }

// Red returns the packed red-bit nibble (bits 11:8).
func (p PackedMeld) Red() int { return int((p >> 8) & 0xF) }

// Kind returns the packed kind field (bits 14:12).
func (p PackedMeld) Kind() int { return int((p >> 12) & 0x7) }

// normalizeRedBits canonicalizes the "own slot" red bits (the low
// ownBits of raw) to a prefix of ones, since the assignment of red-ness to
// a specific own slot among otherwise-identical tiles is immaterial. Bits
// above ownBits (e.g. the called/added bit) pass through unchanged.
func normalizeRedBits(raw, ownBits int) int {
	mask := (1 << ownBits) - 1
	own := raw & mask
	rest := raw &^ mask
	k := bits.OnesCount(uint(own))
	normalizedOwn := (1 << k) - 1
	return normalizedOwn | rest
}

// Packed serializes the meld into its canonical 16-bit form.
func (m Meld) Packed() PackedMeld {
	switch m.Kind {
	case MeldChii:
		red := 0
		if m.Own[0].IsRed() || m.Own[1].IsRed() || m.Called.IsRed() {
			red = 1
		}
		return newPackedMeld(m.Min.Encoding(), m.dir, red, MeldChii)
	case MeldPon:
		raw := 0
		if m.Own[0].IsRed() {
			raw |= 1
		}
		if m.Own[1].IsRed() {
			raw |= 2
		}
		if m.Called.IsRed() {
			raw |= 4
		}
		red := normalizeRedBits(raw, 2)
		return newPackedMeld(m.Own[0].ToNormal().Encoding(), m.dir, red, MeldPon)
	case MeldKakan:
		raw := 0
		if m.Own[0].IsRed() {
			raw |= 1
		}
		if m.Own[1].IsRed() {
			raw |= 2
		}
		if m.Called.IsRed() {
			raw |= 4
		}
		if m.Added.IsRed() {
			raw |= 8
		}
		red := normalizeRedBits(raw, 2)
		return newPackedMeld(m.Own[0].ToNormal().Encoding(), m.dir, red, MeldKakan)
	case MeldDaiminkan:
		raw := 0
		if m.Own[0].IsRed() {
			raw |= 1
		}
		if m.Own[1].IsRed() {
			raw |= 2
		}
		if m.Own[2].IsRed() {
			raw |= 4
		}
		if m.Called.IsRed() {
			raw |= 8
		}
		red := normalizeRedBits(raw, 3)
		return newPackedMeld(m.Own[0].ToNormal().Encoding(), m.dir, red, MeldDaiminkan)
	case MeldAnkan:
		raw := 0
		for i := 0; i < 4; i++ {
			if m.Own[i].IsRed() {
				raw |= 1 << i
			}
		}
		red := normalizeRedBits(raw, 4)
		return newPackedMeld(m.Own[0].ToNormal().Encoding(), 0, red, MeldAnkan)
	default:
		return 0
	}
}

// MeldFromPacked deserializes a PackedMeld. Returns (Meld{}, false) for a
// zero (or otherwise invalid) packed value.
func MeldFromPacked(p PackedMeld) (Meld, bool) {
	base := Tile(p.Tile())
	red := p.Red()
	dir := p.Dir()
	switch MeldKind(p.Kind()) {
	case MeldChii:
		a := base
		b, ok := a.Succ()
		if !ok {
			return Meld{}, false
		}
		c, ok := b.Succ()
		if !ok {
			return Meld{}, false
		}
		if red&1 != 0 {
			a, b, c = a.ToRed(), b.ToRed(), c.ToRed()
		}
		switch dir {
		case 0:
			return ChiiFromTiles(b, c, a)
		case 1:
			return ChiiFromTiles(a, c, b)
		case 2:
			return ChiiFromTiles(a, b, c)
		default:
			return Meld{}, false
		}
	case MeldPon:
		own0, own1, called := base, base, base
		if red&1 != 0 {
			own0 = own0.ToRed()
		}
		if red&2 != 0 {
			own1 = own1.ToRed()
		}
		if red&4 != 0 {
			called = called.ToRed()
		}
		return PonFromTilesDir(own0, own1, called, dir)
	case MeldKakan:
		own0, own1, called, added := base, base, base, base
		if red&1 != 0 {
			own0 = own0.ToRed()
		}
		if red&2 != 0 {
			own1 = own1.ToRed()
		}
		if red&4 != 0 {
			called = called.ToRed()
		}
		if red&8 != 0 {
			added = added.ToRed()
		}
		pon, ok := PonFromTilesDir(own0, own1, called, dir)
		if !ok {
			return Meld{}, false
		}
		return KakanFromPon(pon, added)
	case MeldDaiminkan:
		own0, own1, own2, called := base, base, base, base
		if red&1 != 0 {
			own0 = own0.ToRed()
		}
		if red&2 != 0 {
			own1 = own1.ToRed()
		}
		if red&4 != 0 {
			own2 = own2.ToRed()
		}
		if red&8 != 0 {
			called = called.ToRed()
		}
		return DaiminkanFromTilesDir(own0, own1, own2, called, dir)
	case MeldAnkan:
		own := [4]Tile{base, base, base, base}
		for i := 0; i < 4; i++ {
			if red&(1<<i) != 0 {
				own[i] = own[i].ToRed()
			}
		}
		return AnkanFromTiles(own[0], own[1], own[2], own[3])
	default:
		return Meld{}, false
	}
}
