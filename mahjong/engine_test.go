package mahjong

import "testing"

func ponMeld(t *testing.T, tile string, dir int) Meld {
	tl := MustParseTile(tile)
	m, ok := PonFromTilesDir(tl.ToNormal(), tl.ToNormal(), tl, dir)
	if !ok {
		t.Fatalf("could not build pon of %s", tile)
	}
	return m
}

func handFromString(s string) TileSet37 {
	return NewTileSet37(MustParseTiles(s))
}

// TestEngine_FirstTurnNineKindsAbort checks that a fresh round where the
// actor holds 9+ distinct terminal/honor kinds may abort instead of
// discarding, and no points move beyond the pot that was already there.
func TestEngine_FirstTurnNineKindsAbort(t *testing.T) {
	state := &State{
		Ruleset:           DefaultRuleset(),
		RoundID:           RoundID{Kyoku: 0},
		Actor:             0,
		NineKindsEligible: true,
		Points:            [4]int{25000, 25000, 25000, 25000},
	}
	state.ClosedHands[0] = handFromString("19m19p19s1234567z")

	eng := NewEngine()
	eng.JumpToState(state)

	if _, err := eng.RegisterAction(AbortNineKindsAction()); err != nil {
		t.Fatalf("register_action(AbortNineKinds) rejected: %v", err)
	}
	step := eng.Step()
	if step.Result != ResultAbortNineKinds {
		t.Fatalf("step result = %v, want AbortNineKinds", step.Result)
	}
	if step.RoundEnd == nil {
		t.Fatalf("expected a RoundEnd")
	}
	if step.RoundEnd.Points != [4]int{25000, 25000, 25000, 25000} {
		t.Fatalf("nine-kinds abort must not move points, got %+v", step.RoundEnd.Points)
	}
}

// TestEngine_SimplePinfuTsumo checks that a closed, all-shuntsu hand with
// a non-yakuhai pair and a ryanmen wait, won by tsumo, scores
// menzentsumo + pinfu (2 han, 20 fu) and pays dealer-double tsumo shares.
func TestEngine_SimplePinfuTsumo(t *testing.T) {
	state := &State{
		Ruleset: DefaultRuleset(),
		RoundID: RoundID{Kyoku: 0}, // button = seat 0
		Actor:   1,                 // non-dealer winner
		Points:  [4]int{25000, 25000, 25000, 25000},
	}
	// 22m 234m 567p 345s 789s: pair + three shuntsu + the just-completed
	// ryanmen group (45s waiting on 3s/6s, won on 3s).
	state.ClosedHands[1] = handFromString("22234m567p345789s")
	// Dora indicator chosen so it does not overlap this hand, isolating
	// the test to menzentsumo + pinfu.
	state.Wall[126] = MustParseTile("7z")

	eng := NewEngine()
	eng.JumpToState(state)

	if _, err := eng.RegisterAction(TsumoAgariAction(MustParseTile("3s"))); err != nil {
		t.Fatalf("register_action(TsumoAgari) rejected: %v", err)
	}
	step := eng.Step()
	if step.Result != ResultTsumoAgari {
		t.Fatalf("step result = %v, want TsumoAgari", step.Result)
	}
	end := step.RoundEnd
	if end == nil || len(end.Winners) != 1 {
		t.Fatalf("expected exactly one winner, got %+v", end)
	}
	win := end.Winners[0]
	if win.Han != 2 {
		t.Fatalf("han = %d, want 2 (menzentsumo + pinfu)", win.Han)
	}
	if win.Fu != 20 {
		t.Fatalf("fu = %d, want 20", win.Fu)
	}
	if win.Points != 1500 {
		t.Fatalf("points = %d, want 1500 (700 dealer + 400 + 400)", win.Points)
	}
	if end.Points[0] != 25000-700 || end.Points[2] != 25000-400 || end.Points[3] != 25000-400 {
		t.Fatalf("payer points = %+v, want dealer -700 and non-dealers -400", end.Points)
	}
}

// TestEngine_Chankan checks that a kakan declaration that gets robbed
// resolves as a ron carrying the Chankan yaku, and the kakan itself
// never lands in the discarder's melds.
func TestEngine_Chankan(t *testing.T) {
	state := &State{
		Ruleset: DefaultRuleset(),
		RoundID: RoundID{Kyoku: 0},
		Actor:   0,
		Points:  [4]int{25000, 25000, 25000, 25000},
	}
	state.Melds[0] = []Meld{ponMeld(t, "5m", 1)}
	state.ClosedHands[0] = handFromString("5m123456789p1s")
	// Tanki wait on 5m: four complete shuntsu plus a lone 5m.
	state.ClosedHands[2] = handFromString("234m678p123456s5m")
	// Dora indicator chosen so it does not overlap either hand.
	state.Wall[126] = MustParseTile("8p")

	eng := NewEngine()
	eng.JumpToState(state)

	if _, err := eng.RegisterAction(KakanAction(MustParseTile("5m"))); err != nil {
		t.Fatalf("register_action(Kakan) rejected: %v", err)
	}
	if _, err := eng.RegisterReaction(2, RonAgariReaction()); err != nil {
		t.Fatalf("register_reaction(RonAgari) rejected: %v", err)
	}
	step := eng.Step()
	if step.Result != ResultRonAgari {
		t.Fatalf("step result = %v, want RonAgari", step.Result)
	}
	end := step.RoundEnd
	if end == nil || len(end.Winners) != 1 {
		t.Fatalf("expected exactly one winner, got %+v", end)
	}
	if !end.Winners[0].Chankan {
		t.Fatalf("winning result should be flagged Chankan")
	}
	if len(step.State.Melds[0]) != 1 || step.State.Melds[0][0].Kind != MeldPon {
		t.Fatalf("kakan must not be committed once robbed, melds = %+v", step.State.Melds[0])
	}
}

// TestEngine_RonOnDiscardWithHonba checks the ordinary deal-in path: the
// discard is committed to the discarder's pile as ronned, and the payer
// covers the hand value plus 300 per honba counter.
func TestEngine_RonOnDiscardWithHonba(t *testing.T) {
	state := &State{
		Ruleset: DefaultRuleset(),
		RoundID: RoundID{Kyoku: 0, Honba: 2},
		Actor:   0,
		Points:  [4]int{25000, 25000, 25000, 25000},
	}
	state.ClosedHands[0] = handFromString("123456789m44556p")
	// Tanyao + pinfu tenpai: 22m pair, 234m 345s 678s, ryanmen 45p on 3p/6p.
	state.ClosedHands[2] = handFromString("22234m45p345678s")
	// Dora indicator chosen so it does not overlap either hand.
	state.Wall[126] = MustParseTile("7z")

	eng := NewEngine()
	eng.JumpToState(state)

	if _, err := eng.RegisterAction(DiscardAction(MustParseTile("6p"), false, false)); err != nil {
		t.Fatalf("register_action rejected: %v", err)
	}
	if _, err := eng.RegisterReaction(2, RonAgariReaction()); err != nil {
		t.Fatalf("register_reaction(RonAgari) rejected: %v", err)
	}
	step := eng.Step()
	if step.Result != ResultRonAgari {
		t.Fatalf("step result = %v, want RonAgari", step.Result)
	}
	end := step.RoundEnd
	if end == nil || len(end.Winners) != 1 || end.Loser != 0 {
		t.Fatalf("expected player 2 to ron off player 0, got %+v", end)
	}
	win := end.Winners[0]
	if win.Han != 2 || win.Fu != 30 {
		t.Fatalf("han/fu = %d/%d, want 2/30 (tanyao + pinfu)", win.Han, win.Fu)
	}
	// base 480 -> 1920 -> 2000 rounded, plus 2 honba * 300.
	if win.Points != 2600 {
		t.Fatalf("points = %d, want 2600", win.Points)
	}
	if end.Points[0] != 25000-2600 || end.Points[2] != 25000+2600 {
		t.Fatalf("point transfer wrong: %+v", end.Points)
	}
	discards := step.State.Discards[0]
	if len(discards) != 1 || discards[0].CalledBy != -2 {
		t.Fatalf("ronned discard not committed as such: %+v", discards)
	}
}

// TestEngine_RegisterActionDoesNotMutateState covers the register_* purity
// invariant: State() must be unchanged until Step() runs.
func TestEngine_RegisterActionDoesNotMutateState(t *testing.T) {
	state := &State{
		Ruleset: DefaultRuleset(),
		RoundID: RoundID{Kyoku: 0},
		Actor:   0,
		Points:  [4]int{25000, 25000, 25000, 25000},
	}
	state.ClosedHands[0] = handFromString("123456789m11222s")

	eng := NewEngine()
	eng.JumpToState(state)
	before := *eng.State()

	if _, err := eng.RegisterAction(DiscardAction(MustParseTile("2s"), false, true)); err != nil {
		t.Fatalf("register_action rejected: %v", err)
	}
	after := *eng.State()
	if before.Seq != after.Seq || before.ClosedHands != after.ClosedHands {
		t.Fatalf("register_action mutated visible state")
	}

	step := eng.Step()
	if step.State.Seq != before.Seq+1 {
		t.Fatalf("seq did not advance across step: before=%d after=%d", before.Seq, step.State.Seq)
	}
}

// TestEngine_TileConservation checks the 136-tile conservation invariant
// across a normal (uninterrupted) discard-and-draw step.
func TestEngine_TileConservation(t *testing.T) {
	var wall Wall
	tiles := make([]Tile, 0, 136)
	for enc := 0; enc < 34; enc++ {
		for c := 0; c < 4; c++ {
			tiles = append(tiles, Tile(enc))
		}
	}
	copy(wall[:], tiles)

	begin := RoundBegin{
		Ruleset: DefaultRuleset(),
		RoundID: RoundID{Kyoku: 0},
		Wall:    wall,
		Points:  [4]int{25000, 25000, 25000, 25000},
	}
	eng := NewEngine().BeginRound(begin)

	countAll := func(s *State) int {
		total := 0
		for p := 0; p < 4; p++ {
			for _, c := range s.ClosedHands[p] {
				total += int(c)
			}
			for _, m := range s.Melds[p] {
				total += m.NOwn
				if m.HasCalled {
					total++
				}
				if m.Kind == MeldKakan {
					total++
				}
			}
			total += len(s.Discards[p])
		}
		total += (liveWallSizeConst - s.NumDrawnHead) + (deadWallSizeConst - s.NumDrawnTail)
		return total
	}

	state := eng.State()
	if got := countAll(state); got != 136 {
		t.Fatalf("initial tile count = %d, want 136", got)
	}

	actor := state.Actor
	tile, _ := firstTileInHand(state.ClosedHands[actor])
	if _, err := eng.RegisterAction(DiscardAction(tile, false, true)); err != nil {
		t.Fatalf("register_action rejected: %v", err)
	}
	step := eng.Step()
	if got := countAll(step.State); got != 136 {
		t.Fatalf("post-step tile count = %d, want 136", got)
	}
}

const (
	liveWallSizeConst = liveWallSize
	deadWallSizeConst = deadWallSize
)

func firstTileInHand(hand TileSet37) (Tile, bool) {
	for enc, n := range hand {
		if n > 0 {
			return Tile(enc), true
		}
	}
	return 0, false
}
