package mahjong

import "fmt"

// RoundID names a single hand within a session: kyoku (0-indexed hand
// number counted across the whole game; kyoku%4 is the dealer seat and
// kyoku/4 the round wind) and honba (the repeat/abort counter).
// SessionID is carried for embedder bookkeeping only — the engine never
// reads it.
type RoundID struct {
	Kyoku     int
	Honba     int
	SessionID string
}

// Ruleset carries the configurable rule variants. Populated either by
// hand or via mjconfig.Load.
type Ruleset struct {
	NumReds             int           `mapstructure:"numReds"`
	AllowKuitan         bool          `mapstructure:"allowKuitan"`
	AllowDoubleRon      bool          `mapstructure:"allowDoubleRon"`
	AllowTripleRon      bool          `mapstructure:"allowTripleRon"`
	RiichiDepositPoints int           `mapstructure:"riichiDepositPoints"`
	YakuAllow           map[Yaku]bool `mapstructure:"-"`
	YakuBlock           map[Yaku]bool `mapstructure:"-"`
}

// DefaultRuleset returns the standard competition ruleset: three red
// fives, open tanyao allowed, double ron allowed, triple ron forbidden
// (aborts instead), 1000-point riichi deposit.
func DefaultRuleset() Ruleset {
	return Ruleset{
		NumReds:             3,
		AllowKuitan:         true,
		AllowDoubleRon:      true,
		AllowTripleRon:      false,
		RiichiDepositPoints: 1000,
	}
}

func (r Ruleset) yakuEnabled(y Yaku) bool {
	if r.YakuBlock != nil && r.YakuBlock[y] {
		return false
	}
	if r.YakuAllow != nil {
		return r.YakuAllow[y]
	}
	return true
}

// RoundBegin is the input to Engine.begin_round.
type RoundBegin struct {
	Ruleset Ruleset
	RoundID RoundID
	Wall    Wall
	Pot     int
	Points  [4]int
}

// RiichiFlags tracks one player's riichi state.
type RiichiFlags struct {
	IsActive  bool
	IsDouble  bool // declared on the very first discard with no calls yet
	IsIppatsu bool // still within one uninterrupted go-around
}

// Discard is one tile placed on a player's discard pile.
type Discard struct {
	Tile           Tile
	CalledBy       int // -1 if uncalled, -2 if won on by ron
	DeclaresRiichi bool
	IsTsumogiri    bool
}

func (d Discard) String() string {
	s := d.Tile.String()
	if d.DeclaresRiichi {
		s += "r"
	} else if d.IsTsumogiri {
		s += "*"
	}
	return s
}

// State is the complete, immutable-outside-step game state for one round.
type State struct {
	Ruleset Ruleset
	RoundID RoundID
	Wall    Wall

	Seq          int
	Actor        int
	NumDrawnHead int
	NumDrawnTail int

	ClosedHands [4]TileSet37
	Melds       [4][]Meld
	Discards    [4][]Discard
	RiichiFlags [4]RiichiFlags
	// Furiten is temporary furiten: set when a player passes a winning
	// tile and cleared at that player's next draw. FuritenPermanent is
	// set once and for the rest of the round the moment a player under
	// active riichi passes any winning tile. A player's live furiten
	// status (see isFuriten) is the OR of these two plus a fresh check
	// of their own discard pile against their current wait set.
	Furiten          [4]bool
	FuritenPermanent [4]bool

	IncomingMeld *Meld

	Points [4]int
	Pot    int

	FourWindCount     int
	FourWindTile      Tile
	NineKindsEligible bool
}

// Clone returns a deep copy of s, used by step to build the next state
// without mutating what register_* handed back via State().
func (s *State) Clone() *State {
	c := *s
	for i := 0; i < 4; i++ {
		c.Melds[i] = append([]Meld(nil), s.Melds[i]...)
		c.Discards[i] = append([]Discard(nil), s.Discards[i]...)
	}
	if s.IncomingMeld != nil {
		m := *s.IncomingMeld
		c.IncomingMeld = &m
	}
	return &c
}

// ActionKind enumerates the in-turn action variants.
type ActionKind int

const (
	ActionDiscard ActionKind = iota
	ActionAnkan
	ActionKakan
	ActionTsumoAgari
	ActionAbortNineKinds
)

// Action is the in-turn player's move for this step.
type Action struct {
	Kind           ActionKind
	Tile           Tile // Discard/Ankan/Kakan/TsumoAgari: the tile involved
	DeclaresRiichi bool // Discard only
	IsTsumogiri    bool // Discard only
}

func DiscardAction(tile Tile, riichi, tsumogiri bool) Action {
	return Action{Kind: ActionDiscard, Tile: tile, DeclaresRiichi: riichi, IsTsumogiri: tsumogiri}
}
func AnkanAction(tile Tile) Action      { return Action{Kind: ActionAnkan, Tile: tile} }
func KakanAction(tile Tile) Action      { return Action{Kind: ActionKakan, Tile: tile} }
func TsumoAgariAction(tile Tile) Action { return Action{Kind: ActionTsumoAgari, Tile: tile} }
func AbortNineKindsAction() Action      { return Action{Kind: ActionAbortNineKinds} }

// ReactionKind enumerates the out-of-turn reaction variants, ordered to
// match priority: Chii < Pon < Daiminkan < RonAgari.
type ReactionKind int

const (
	ReactionChii ReactionKind = iota
	ReactionPon
	ReactionDaiminkan
	ReactionRonAgari
)

// Reaction is one out-of-turn player's registered response.
type Reaction struct {
	Kind ReactionKind
	Own0 Tile // Chii/Pon: first own tile
	Own1 Tile // Chii/Pon: second own tile
}

func ChiiReaction(own0, own1 Tile) Reaction { return Reaction{Kind: ReactionChii, Own0: own0, Own1: own1} }
func PonReaction(own0, own1 Tile) Reaction  { return Reaction{Kind: ReactionPon, Own0: own0, Own1: own1} }
func DaiminkanReaction() Reaction           { return Reaction{Kind: ReactionDaiminkan} }
func RonAgariReaction() Reaction            { return Reaction{Kind: ReactionRonAgari} }

// ActionResultKind enumerates every outcome step() can report.
type ActionResultKind int

const (
	ResultPass ActionResultKind = iota
	ResultChii
	ResultPon
	ResultDaiminkan
	ResultRonAgari
	ResultTsumoAgari
	ResultAbortNineKinds
	ResultAbortWallExhausted
	ResultAbortNagashiMangan
	ResultAbortFourKan
	ResultAbortFourWind
	ResultAbortFourRiichi
	ResultAbortMultiRon
)

func (k ActionResultKind) String() string {
	switch k {
	case ResultPass:
		return "Pass"
	case ResultChii:
		return "Chii"
	case ResultPon:
		return "Pon"
	case ResultDaiminkan:
		return "Daiminkan"
	case ResultRonAgari:
		return "RonAgari"
	case ResultTsumoAgari:
		return "TsumoAgari"
	case ResultAbortNineKinds:
		return "AbortNineKinds"
	case ResultAbortWallExhausted:
		return "AbortWallExhausted"
	case ResultAbortNagashiMangan:
		return "AbortNagashiMangan"
	case ResultAbortFourKan:
		return "AbortFourKan"
	case ResultAbortFourWind:
		return "AbortFourWind"
	case ResultAbortFourRiichi:
		return "AbortFourRiichi"
	case ResultAbortMultiRon:
		return "AbortMultiRon"
	default:
		return "Invalid"
	}
}

// WinResult carries one winner's scoring breakdown.
type WinResult struct {
	Player    int
	Han       int
	Fu        int
	Points    int
	Yaku      []YakuResult
	IsYakuman bool
	Chankan   bool
}

// RoundEnd is produced by step when the round terminates.
type RoundEnd struct {
	Result  ActionResultKind
	Winners []WinResult
	Loser   int // -1 if tsumo or abort
	Points  [4]int
	Pot     int
}

// GameStep is the result of Engine.step(): either the round continues
// with a new State, or it ends with a RoundEnd.
type GameStep struct {
	Result   ActionResultKind
	State    *State
	RoundEnd *RoundEnd
}

// ActionError is returned by register_action on invalid input.
type ActionError struct{ Reason string }

func (e *ActionError) Error() string { return "mahjong: action error: " + e.Reason }

var (
	ErrTileNotInHand                = &ActionError{"tile not in hand"}
	ErrNotClosedForRiichi           = &ActionError{"hand not closed, cannot declare riichi"}
	ErrNoWaitAfterDiscard           = &ActionError{"no wait after discard"}
	ErrInsufficientPointsForRiichi  = &ActionError{"insufficient points for riichi"}
	ErrKanNotAvailable              = &ActionError{"kan not available"}
	ErrRiichiForbidsKanChangingWait = &ActionError{"riichi forbids kan that changes wait"}
	ErrNineKindsNotEligible         = &ActionError{"not eligible for nine kinds abort"}
	ErrTsumoWithoutYaku             = &ActionError{"tsumo without yaku"}
	ErrWallEmpty                    = &ActionError{"wall empty"}
)

// ReactionError is returned by register_reaction on invalid input.
type ReactionError struct{ Reason string }

func (e *ReactionError) Error() string { return "mahjong: reaction error: " + e.Reason }

var (
	ErrNotFromCorrectPlayer    = &ReactionError{"chii must be from left neighbor"}
	ErrTilesNotInHand          = &ReactionError{"tiles not in hand"}
	ErrDoesNotCompleteHand     = &ReactionError{"does not complete hand"}
	ErrFuriten                 = &ReactionError{"furiten"}
	ErrRonWithoutYaku          = &ReactionError{"ron without yaku"}
	ErrReactionKanNotAvailable = &ReactionError{"kan not available"}
)

func fatalf(format string, args ...any) {
	panic(fmt.Sprintf("mahjong: internal invariant violated: "+format, args...))
}
