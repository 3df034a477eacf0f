package mahjong

import "testing"

// TestDecomposer_RegularWaitReconstructsHand checks that every wait
// RegularWaits reports for a 13-tile hand actually completes it: adding
// the reported WaitTile to h34 must yield a hand IsAgariRegular accepts.
// This is the decomposer's own round-trip law, checked through its two
// public entry points rather than by re-deriving the taatsu geometry
// RegularWait itself doesn't expose.
func TestDecomposer_RegularWaitReconstructsHand(t *testing.T) {
	dec := NewDecomposer()
	// 13-tile tenpai hand: 123m 456p 789s 11z + 23m (ryanmen on 1m/4m).
	h34 := NewTileSet34(MustParseTiles("123m456p789s23m11z"))
	waits := dec.RegularWaits(h34, 0)
	if len(waits) == 0 {
		t.Fatalf("expected at least one regular wait")
	}
	for _, rw := range waits {
		trial := h34
		trial[rw.WaitTile.NormalEncoding()]++
		if !dec.IsAgariRegular(trial, 0) {
			t.Fatalf("wait %+v does not complete the hand: h34+%s = %+v is not agari", rw, rw.WaitTile, trial)
		}
	}
}

// TestDecomposer_WaitingTilesMatchesCompletion checks the waiting-tile set
// equals exactly the tiles that, appended, yield a complete 4-group-1-pair
// hand.
func TestDecomposer_WaitingTilesMatchesCompletion(t *testing.T) {
	dec := NewDecomposer()
	h34 := NewTileSet34(MustParseTiles("123m456p789s23m11z"))
	waiting := dec.WaitingTiles(h34, 0)
	waitSet := map[Tile]bool{}
	for _, w := range waiting {
		waitSet[w] = true
	}
	for enc := 0; enc < 34; enc++ {
		candidate := Tile(enc)
		trial := h34
		trial[enc]++
		complete := dec.IsAgariRegular(trial, 0)
		if complete != waitSet[candidate] {
			t.Fatalf("tile %s: IsAgariRegular=%v but waiting set says %v", candidate, complete, waitSet[candidate])
		}
	}
}

// TestDecomposer_ChiitoitsuAndRegularCoexist checks that a hand shaped for
// both seven-pairs and a regular wait produces both kinds of decomposition
// rather than one suppressing the other.
func TestDecomposer_ChiitoitsuAndRegularCoexist(t *testing.T) {
	dec := NewDecomposer()
	// 1122334455667m: seven-pairs tenpai on 7m (6 pairs + a lone 7m), and
	// simultaneously a regular tenpai (e.g. 11m pair + 234m 234m 567m + 56m).
	h34 := NewTileSet34(MustParseTiles("1122334455667m"))
	iw := dec.SevenPairsWaits(h34)
	if len(iw) == 0 {
		t.Fatalf("expected a seven-pairs wait")
	}
	rw := dec.RegularWaits(h34, 0)
	if len(rw) == 0 {
		t.Fatalf("expected the same 13 tiles to also admit a regular wait")
	}
}

// TestDecomposer_TankiBelowGroups pins the case where the wait tile
// sorts below every complete group: the enumerator must still reach the
// decomposition that leaves the lowest tile as the leftover.
func TestDecomposer_TankiBelowGroups(t *testing.T) {
	dec := NewDecomposer()
	// 1m + 222m 333m 444m 555m: tanki on 1m.
	h34 := NewTileSet34(MustParseTiles("1222333444555m"))
	found := false
	for _, rw := range dec.RegularWaits(h34, 0) {
		if rw.Kind == WaitTanki && rw.WaitTile == MustParseTile("1m") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a tanki wait on 1m, got %+v", dec.RegularWaits(h34, 0))
	}
}

func TestDecomposer_IsAgariClosedKokushi(t *testing.T) {
	dec := NewDecomposer()
	h13 := NewTileSet34(MustParseTiles("19m19p19s1234567z"))
	if got := dec.IsAgariKokushi(h13); got {
		t.Fatalf("13 distinct terminals/honors with no pair should not be agari yet")
	}
	h14 := h13
	h14[0]++ // duplicate 1m completes the pair
	if !dec.IsAgariKokushi(h14) {
		t.Fatalf("expected kokushi agari once a terminal/honor is duplicated")
	}
}
