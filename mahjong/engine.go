package mahjong

// Engine is the public entry point to the rules engine:
// begin_round/jump_to_state seed a State, register_action/register_reaction
// validate a proposed move without mutating anything visible, and step
// commits the resolved turn. Errors are reported through (*Engine, error)
// returns so callers can write e, err := eng.RegisterAction(...).
type Engine struct {
	begin     RoundBegin
	state     *State
	action    *Action
	reactions [4]*Reaction
	end       *RoundEnd
	cache     *EngineCache
}

// NewEngine returns an Engine with no round in progress; call BeginRound
// before registering actions.
func NewEngine() *Engine {
	return &Engine{cache: newEngineCache()}
}

// State returns the current, immutable game state.
func (e *Engine) State() *State { return e.state }

// End returns the round's outcome once it has ended, or nil mid-round.
func (e *Engine) End() *RoundEnd { return e.end }

// BeginRound seeds a fresh round from begin: deals hands, seats the
// button, and draws the button's first tile.
func (e *Engine) BeginRound(begin RoundBegin) *Engine {
	e.begin = begin
	e.state = newState(begin)
	e.action = nil
	e.reactions = [4]*Reaction{}
	e.end = nil
	e.cache = newEngineCache()
	e.cache.recomputeAll(e.state)
	return e
}

// JumpToState installs state directly, bypassing begin_round — for
// replay/resume from a persisted snapshot. Seq is not required to be
// monotonic across a jump.
func (e *Engine) JumpToState(state *State) *Engine {
	e.state = state
	e.action = nil
	e.reactions = [4]*Reaction{}
	e.end = nil
	e.cache = newEngineCache()
	e.cache.recomputeAll(e.state)
	return e
}

// RegisterAction validates and stores the current actor's proposed move.
// Any previously registered reactions are cleared, since they were
// validated against whatever action preceded this one.
func (e *Engine) RegisterAction(action Action) (*Engine, error) {
	if e.state == nil {
		fatalf("register_action called before begin_round")
	}
	e.action = nil
	e.reactions = [4]*Reaction{}
	if err := checkAction(e.state, e.cache, action); err != nil {
		return e, err
	}
	a := action
	e.action = &a
	return e, nil
}

// RegisterReaction validates and stores reactor's out-of-turn response to
// the currently registered action.
func (e *Engine) RegisterReaction(reactor int, reaction Reaction) (*Engine, error) {
	if e.action == nil {
		fatalf("register_reaction called with no registered action")
	}
	e.reactions[reactor] = nil
	if err := checkReaction(e.state, e.cache, e.begin.Ruleset, *e.action, reactor, reaction); err != nil {
		return e, err
	}
	r := reaction
	e.reactions[reactor] = &r
	return e, nil
}

// Step commits the registered action (and whichever reaction wins
// priority, if any) and advances the round. It panics if no action has
// been registered — RegisterAction must succeed first.
func (e *Engine) Step() GameStep {
	if e.action == nil {
		fatalf("step called with no registered action")
	}
	action := *e.action

	switch action.Kind {
	case ActionTsumoAgari:
		return e.stepTsumoAgari(action)
	case ActionAbortNineKinds:
		return e.stepAbortNineKinds()
	}

	outcome := resolveReactions(e.begin.Ruleset, e.state.Actor, e.reactions)
	switch outcome.Kind {
	case ResultPass:
		return e.stepNormal(action)
	case ResultChii, ResultPon, ResultDaiminkan:
		return e.stepCalled(action, outcome)
	case ResultRonAgari:
		return e.stepRon(action, outcome)
	case ResultAbortMultiRon:
		return e.finishAbort(ResultAbortMultiRon, e.state.Clone())
	default:
		fatalf("unexpected reaction outcome %v", outcome.Kind)
		panic("unreachable")
	}
}

// stepTsumoAgari ends the round on a self-draw win.
func (e *Engine) stepTsumoAgari(action Action) GameStep {
	next := e.state.Clone()
	next.Seq++
	actionIsKan := next.IncomingMeld != nil && next.IncomingMeld.IsKan()
	candidates := agariCandidates(next, e.cache, next.Actor, action.Tile, AgariTsumo, next.IncomingMeld, actionIsKan)
	best, ok := bestAgari(e.begin.Ruleset, candidates)
	if !ok {
		fatalf("tsumo committed with no scoring decomposition")
	}
	win := WinResult{
		Player: next.Actor, Han: best.han, Fu: best.fu,
		Yaku: best.results, IsYakuman: best.isYakuman,
		Chankan: false,
	}
	shares := tsumoShares(best.base, next.Actor, buttonForRound(next.RoundID))
	honba := next.RoundID.Honba
	total := 0
	for _, s := range shares {
		pay := s.Points + 100*honba
		next.Points[s.Payer] -= pay
		total += pay
	}
	total += next.Pot
	next.Points[next.Actor] += total
	win.Points = total
	next.Pot = 0

	end := &RoundEnd{Result: ResultTsumoAgari, Winners: []WinResult{win}, Loser: -1, Points: next.Points, Pot: 0}
	e.state = next
	e.end = end
	e.action = nil
	e.reactions = [4]*Reaction{}
	return GameStep{Result: ResultTsumoAgari, State: next, RoundEnd: end}
}

// stepAbortNineKinds ends the round on a first-discard nine-kinds
// declaration, with no points exchanged beyond the already-posted pot.
func (e *Engine) stepAbortNineKinds() GameStep {
	next := e.state.Clone()
	next.Seq++
	return e.finishAbort(ResultAbortNineKinds, next)
}

// stepRon ends the round on one or more simultaneous ron claims against
// the registered action's discarded (or kan-concealed) tile.
func (e *Engine) stepRon(action Action, outcome reactionOutcome) GameStep {
	actor := e.state.Actor
	next := e.state.Clone()
	next.Seq++
	markPassedOnWaitsExcept(next, e.cache, actor, action.Tile, outcome.Winners)

	actionIsKan := action.Kind == ActionKakan || action.Kind == ActionAnkan
	if action.Kind == ActionDiscard {
		// Commit the discard as ronned (never called into a meld). Riichi
		// bookkeeping is skipped: a declaration whose discard deals in
		// never establishes, so no deposit is posted.
		next.ClosedHands[actor][action.Tile.Encoding()]--
		next.Discards[actor] = append(next.Discards[actor], Discard{
			Tile: action.Tile, CalledBy: -2,
			DeclaresRiichi: action.DeclaresRiichi, IsTsumogiri: action.IsTsumogiri,
		})
	}

	var winners []WinResult
	honba := next.RoundID.Honba
	potRemaining := next.Pot
	for i, winner := range outcome.Winners {
		candidates := agariCandidates(next, e.cache, winner, action.Tile, AgariRon, nil, actionIsKan)
		best, ok := bestAgari(e.begin.Ruleset, candidates)
		if !ok {
			fatalf("ron committed with no scoring decomposition for player %d", winner)
		}
		isDealer := winner == buttonForRound(next.RoundID)
		pay := ronPoints(best.base, isDealer)
		bonus := 0
		if i == 0 {
			// Pot and honba go to the winner closest to the discarder.
			pay += 300 * honba
			bonus = potRemaining
			potRemaining = 0
		}
		win := WinResult{
			Player: winner, Han: best.han, Fu: best.fu, Points: pay + bonus,
			Yaku: best.results, IsYakuman: best.isYakuman,
			Chankan: actionIsKan,
		}
		next.Points[winner] += win.Points
		next.Points[actor] -= pay
		winners = append(winners, win)
	}
	next.Pot = 0

	end := &RoundEnd{Result: ResultRonAgari, Winners: winners, Loser: actor, Points: next.Points, Pot: 0}
	e.state = next
	e.end = end
	e.action = nil
	e.reactions = [4]*Reaction{}
	return GameStep{Result: ResultRonAgari, State: next, RoundEnd: end}
}

// markPassedOnWaitsExcept applies passed-ron furiten (markPassedRon) to
// every player other than the discarder and the listed winners whose
// cached wait includes tile. Callers pass nil winners when nobody won on
// the tile.
func markPassedOnWaitsExcept(state *State, cache *EngineCache, discarder int, tile Tile, winners []int) {
	won := make(map[int]bool, len(winners))
	for _, w := range winners {
		won[w] = true
	}
	for p := 0; p < 4; p++ {
		if p == discarder || won[p] {
			continue
		}
		if cache.isWaitingOn(p, tile) {
			markPassedRon(state, p)
		}
	}
}
