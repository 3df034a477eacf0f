// Package mahjong implements the core rules engine for Japanese Riichi
// Mahjong: tiles, melds, wall, hand decomposition, turn-cycle state
// machine, and yaku/scoring.
package mahjong

import (
	"fmt"
	"sort"
)

// Tile is an integer identifier with two views: encoding (0..37, red fives
// live at 34/35/36) and normal encoding (0..34, red collapses to num=5).
type Tile uint8

const (
	SuitMan = 0
	SuitPin = 1
	SuitSou = 2
	SuitHonor = 3
)

// Honor tile normal encodings, in display order: East South West North
// White Green Red.
const (
	TileEast Tile = 27 + iota
	TileSouth
	TileWest
	TileNorth
	TileWhite
	TileGreen
	TileRed
)

const (
	redFiveMan Tile = 34
	redFivePin Tile = 35
	redFiveSou Tile = 36
)

// Encoding returns the 0..37 tile identifier.
func (t Tile) Encoding() int { return int(t) }

// IsRed reports whether t is one of the three red-five variants.
func (t Tile) IsRed() bool { return t >= 34 }

// NormalEncoding folds red fives onto their normal num=5 slot, returning a
// value in 0..34.
func (t Tile) NormalEncoding() int {
	switch t {
	case redFiveMan:
		return 4
	case redFivePin:
		return 13
	case redFiveSou:
		return 22
	default:
		return int(t)
	}
}

// ToNormal returns the non-red tile occupying the same histogram slot.
func (t Tile) ToNormal() Tile { return Tile(t.NormalEncoding()) }

// ToRed returns the red variant of t if t is a five in a numbered suit;
// otherwise t is returned unchanged.
func (t Tile) ToRed() Tile {
	switch t.NormalEncoding() {
	case 4:
		return redFiveMan
	case 13:
		return redFivePin
	case 22:
		return redFiveSou
	default:
		return t
	}
}

// IsHonor reports whether t is a wind or dragon tile.
func (t Tile) IsHonor() bool { return t.NormalEncoding() >= 27 }

// Suit returns 0=m, 1=p, 2=s, 3=z (honors).
func (t Tile) Suit() int {
	n := t.NormalEncoding()
	if n >= 27 {
		return SuitHonor
	}
	return n / 9
}

// NormalNum returns the tile's number ignoring red-ness: 1..9 for numbered
// suits, 1..7 for honors (E,S,W,N,White,Green,Red).
func (t Tile) NormalNum() int {
	n := t.NormalEncoding()
	if n >= 27 {
		return n - 27 + 1
	}
	return n%9 + 1
}

// Num returns the display number: 0 for a red five, otherwise NormalNum.
func (t Tile) Num() int {
	if t.IsRed() {
		return 0
	}
	return t.NormalNum()
}

// SuitChar returns 'm', 'p', 's', or 'z'.
func (t Tile) SuitChar() byte {
	switch t.Suit() {
	case SuitMan:
		return 'm'
	case SuitPin:
		return 'p'
	case SuitSou:
		return 's'
	default:
		return 'z'
	}
}

// Succ returns the next tile in sequence within the same suit. Fails at
// num=9 and for honors. The result is always a normal (non-red) tile.
func (t Tile) Succ() (Tile, bool) {
	if t.IsHonor() {
		return 0, false
	}
	n := t.NormalEncoding()
	if n%9 == 8 {
		return 0, false
	}
	return Tile(n + 1), true
}

func (t Tile) String() string {
	return fmt.Sprintf("%d%c", t.Num(), t.SuitChar())
}

// ParseTiles parses a hand string such as "147m258p369s77z" into a tile
// slice. Digits accumulate until a suit letter is seen; "0" denotes a red
// five in suits m/p/s.
func ParseTiles(s string) ([]Tile, error) {
	var tiles []Tile
	var digits []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits = append(digits, c-'0')
			continue
		}
		var suit int
		switch c {
		case 'm':
			suit = SuitMan
		case 'p':
			suit = SuitPin
		case 's':
			suit = SuitSou
		case 'z':
			suit = SuitHonor
		default:
			return nil, fmt.Errorf("mahjong: invalid suit character %q", c)
		}
		if len(digits) == 0 {
			return nil, fmt.Errorf("mahjong: suit %q with no preceding digits", c)
		}
		for _, d := range digits {
			if suit == SuitHonor {
				if d < 1 || d > 7 {
					return nil, fmt.Errorf("mahjong: invalid honor number %d", d)
				}
				tiles = append(tiles, Tile(27+int(d)-1))
			} else {
				if d == 0 {
					tiles = append(tiles, Tile(suit*9+4).ToRed())
				} else if d >= 1 && d <= 9 {
					tiles = append(tiles, Tile(suit*9+int(d)-1))
				} else {
					return nil, fmt.Errorf("mahjong: invalid tile number %d", d)
				}
			}
		}
		digits = digits[:0]
	}
	if len(digits) > 0 {
		return nil, fmt.Errorf("mahjong: trailing digits %v without a suit", digits)
	}
	return tiles, nil
}

// ParseTile parses a single tile, e.g. "5m" or "0p".
func ParseTile(s string) (Tile, error) {
	ts, err := ParseTiles(s)
	if err != nil {
		return 0, err
	}
	if len(ts) != 1 {
		return 0, fmt.Errorf("mahjong: expected exactly one tile, got %d", len(ts))
	}
	return ts[0], nil
}

// MustParseTile is like ParseTile but panics on error; intended for tests
// and literal construction.
func MustParseTile(s string) Tile {
	t, err := ParseTile(s)
	if err != nil {
		panic(err)
	}
	return t
}

// MustParseTiles is like ParseTiles but panics on error.
func MustParseTiles(s string) []Tile {
	ts, err := ParseTiles(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// TileSet37 is a histogram over all 37 encodings (red-aware).
type TileSet37 [37]uint8

// NewTileSet37 builds a histogram from a tile slice.
func NewTileSet37(tiles []Tile) TileSet37 {
	var h TileSet37
	for _, t := range tiles {
		h[t.Encoding()]++
	}
	return h
}

// ToSortedSlice expands the histogram back into a sorted tile slice.
func (h TileSet37) ToSortedSlice() []Tile {
	var tiles []Tile
	for enc, count := range h {
		for i := uint8(0); i < count; i++ {
			tiles = append(tiles, Tile(enc))
		}
	}
	return tiles
}

// TileSet34 is a histogram over the 34 normal encodings (red folds into
// its num=5 slot).
type TileSet34 [34]uint8

// NewTileSet34 builds a red-folded histogram from a tile slice.
func NewTileSet34(tiles []Tile) TileSet34 {
	var h TileSet34
	for _, t := range tiles {
		h[t.NormalEncoding()]++
	}
	return h
}

// NewTileSet34From37 projects a TileSet37 down to TileSet34, folding red
// counts into their normal num=5 slot.
func NewTileSet34From37(h37 TileSet37) TileSet34 {
	var h TileSet34
	copy(h[:], h37[:34])
	h[4] += h37[34]
	h[13] += h37[35]
	h[22] += h37[36]
	return h
}

// ToSortedSlice expands the histogram back into a sorted (normal) tile
// slice.
func (h TileSet34) ToSortedSlice() []Tile {
	var tiles []Tile
	for enc, count := range h {
		for i := uint8(0); i < count; i++ {
			tiles = append(tiles, Tile(enc))
		}
	}
	return tiles
}

// Packed compresses the histogram into one 27-bit integer per suit, 3 bits
// per tile count (honors occupy slot 3 using 21 of its 27 bits).
func (h TileSet34) Packed() [4]uint32 {
	var packed [4]uint32
	for i := 33; i >= 0; i-- {
		s := i / 9
		packed[s] = (packed[s] << 3) | uint32(h[i])
	}
	return packed
}

// sortTilesByNormalEncoding sorts tiles ascending by normal encoding,
// breaking ties by putting red tiles first. This matches the canonical
// ordering used by meld Display and construction: e.g. PonFromTilesDir
// on (5p, 0p, 0p, ...) stores its own pair as [0p, 5p], red first.
func sortTilesByNormalEncoding(ts []Tile) {
	sort.Slice(ts, func(i, j int) bool {
		ni, nj := ts[i].NormalEncoding(), ts[j].NormalEncoding()
		if ni != nj {
			return ni < nj
		}
		return ts[i].IsRed() && !ts[j].IsRed()
	})
}
