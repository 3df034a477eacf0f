package main

import (
	"fmt"
	"math/rand"
	"os"

	"riichi/mahjong"
	"riichi/mjconfig"
	"riichi/mjlog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	seed       int64
	maxSteps   int
)

var rootCmd = &cobra.Command{
	Use:   "riichictl",
	Short: "riichictl mahjong 规则引擎命令行工具",
	Long:  `riichictl drives the riichi rules engine from the command line for local demos and rule inspection.`,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "run one round in which each player discards their lowest-encoded tile, printing each step",
	RunE: func(cmd *cobra.Command, args []string) error {
		mjlog.SetLevel(logLevel)
		ruleset := mahjong.DefaultRuleset()
		if configFile != "" {
			loaded, err := mjconfig.Load(configFile)
			if err != nil {
				return fmt.Errorf("load ruleset: %w", err)
			}
			ruleset = *loaded
		}
		wall := buildDemoWall(seed)
		if !wall.IsValidWall() {
			return fmt.Errorf("internal error: generated wall is not a valid 136-tile multiset")
		}

		eng := mahjong.NewEngine().BeginRound(mahjong.RoundBegin{
			Ruleset: ruleset,
			RoundID: mahjong.RoundID{Kyoku: 1, Honba: 0, SessionID: uuid.NewString()},
			Wall:    wall,
			Points:  [4]int{25000, 25000, 25000, 25000},
		})

		for i := 0; i < maxSteps; i++ {
			state := eng.State()
			actor := state.Actor
			hand := state.ClosedHands[actor]
			tile, ok := firstTile(hand)
			if !ok {
				mjlog.Warn("player %d has no tile to discard, stopping", actor)
				break
			}
			if _, err := eng.RegisterAction(mahjong.DiscardAction(tile, false, true)); err != nil {
				mjlog.Error("turn %d: player %d register_action rejected: %v", i, actor, err)
				break
			}
			step := eng.Step()
			mjlog.Info("turn %d: player %d discards %s -> %s", i, actor, tile, step.Result)
			if step.RoundEnd != nil {
				printRoundEnd(step.RoundEnd)
				return nil
			}
		}
		mjlog.Info("simulation stopped after %d steps without a round end", maxSteps)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "load a ruleset file and print its resolved contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		mjlog.SetLevel(logLevel)
		if configFile == "" {
			return fmt.Errorf("inspect requires --config")
		}
		ruleset, err := mjconfig.Load(configFile)
		if err != nil {
			return fmt.Errorf("load ruleset: %w", err)
		}
		mjlog.Info("resolved ruleset: %+v", *ruleset)
		return nil
	},
}

func firstTile(hand mahjong.TileSet37) (mahjong.Tile, bool) {
	for enc, n := range hand {
		if n > 0 {
			return mahjong.Tile(enc), true
		}
	}
	return 0, false
}

func printRoundEnd(end *mahjong.RoundEnd) {
	mjlog.Info("round ended: %s", end.Result)
	for _, w := range end.Winners {
		mjlog.Info("  player %d wins: %d han / %d fu / %d points (yakuman=%v)", w.Player, w.Han, w.Fu, w.Points, w.IsYakuman)
	}
	mjlog.Info("final points: %+v", end.Points)
}

// buildDemoWall deterministically shuffles a legal 136-tile multiset (4 of
// each of the 34 kinds, one red five per suit) for local simulation. Real
// deployments supply their own wall; random generation is out of scope for
// the core engine itself.
func buildDemoWall(seed int64) mahjong.Wall {
	var tiles []mahjong.Tile
	for enc := 0; enc < 34; enc++ {
		for c := 0; c < 4; c++ {
			tiles = append(tiles, mahjong.Tile(enc))
		}
	}
	for _, redEnc := range []int{4, 13, 22} {
		for i, t := range tiles {
			if t == mahjong.Tile(redEnc) {
				tiles[i] = mahjong.Tile(redEnc).ToRed()
				break
			}
		}
	}
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })
	var w mahjong.Wall
	copy(w[:], tiles)
	return w
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "ruleset YAML file (see mjconfig)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "logLevel", "info", "log level: debug, info, warn, error")
	simulateCmd.Flags().Int64Var(&seed, "seed", 42, "deterministic shuffle seed for the demo wall")
	simulateCmd.Flags().IntVar(&maxSteps, "maxSteps", 200, "stop the simulation after this many steps if no round end occurs")
	rootCmd.AddCommand(simulateCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
