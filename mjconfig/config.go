// Package mjconfig loads a mahjong.Ruleset from a YAML file using
// spf13/viper. Unlike a process-wide config singleton, Load returns a
// fresh *mahjong.Ruleset so a driver can hold several (e.g. one per
// simulated table) and Watch can refresh any of them independently.
package mjconfig

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"riichi/mahjong"
)

// fileRuleset mirrors mahjong.Ruleset's mapstructure tags plus the yaku
// block list, which mahjong.Ruleset itself leaves untagged (map[Yaku]bool
// has no natural YAML key set). No yaku allow list is read from the file,
// so a loaded Ruleset always has a nil YakuAllow.
type fileRuleset struct {
	NumReds             int      `mapstructure:"numReds"`
	AllowKuitan         bool     `mapstructure:"allowKuitan"`
	AllowDoubleRon      bool     `mapstructure:"allowDoubleRon"`
	AllowTripleRon      bool     `mapstructure:"allowTripleRon"`
	RiichiDepositPoints int      `mapstructure:"riichiDepositPoints"`
	YakuBlock           []string `mapstructure:"yakuBlock"`
}

var yakuByName = func() map[string]mahjong.Yaku {
	m := make(map[string]mahjong.Yaku)
	for y := mahjong.Menzenchintsumohou; y <= mahjong.Suukantsu; y++ {
		m[y.String()] = y
	}
	return m
}()

func toRuleset(f fileRuleset) (*mahjong.Ruleset, error) {
	r := &mahjong.Ruleset{
		NumReds:             f.NumReds,
		AllowKuitan:         f.AllowKuitan,
		AllowDoubleRon:      f.AllowDoubleRon,
		AllowTripleRon:      f.AllowTripleRon,
		RiichiDepositPoints: f.RiichiDepositPoints,
	}
	if len(f.YakuBlock) > 0 {
		r.YakuBlock = make(map[mahjong.Yaku]bool, len(f.YakuBlock))
		for _, name := range f.YakuBlock {
			y, ok := yakuByName[name]
			if !ok {
				return nil, fmt.Errorf("mjconfig: unknown yaku %q in yakuBlock", name)
			}
			r.YakuBlock[y] = true
		}
	}
	return r, nil
}

// Load reads a Ruleset from the YAML file at path.
func Load(path string) (*mahjong.Ruleset, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("riichiDepositPoints", 1000)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("mjconfig: reading config: %w", err)
	}
	var f fileRuleset
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("mjconfig: decoding config: %w", err)
	}
	return toRuleset(f)
}

// Watch reads a Ruleset from path, then invokes onChange with a freshly
// reloaded Ruleset every time the file changes on disk. The caller
// decides when (if ever) to hand a reloaded value to Engine.BeginRound —
// the engine never reloads its own Ruleset mid-round.
func Watch(path string, onChange func(*mahjong.Ruleset)) (*mahjong.Ruleset, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("riichiDepositPoints", 1000)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("mjconfig: reading config: %w", err)
	}
	var f fileRuleset
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("mjconfig: decoding config: %w", err)
	}
	initial, err := toRuleset(f)
	if err != nil {
		return nil, err
	}
	v.WatchConfig()
	v.OnConfigChange(func(in fsnotify.Event) {
		var reloaded fileRuleset
		if err := v.Unmarshal(&reloaded); err != nil {
			return
		}
		rs, err := toRuleset(reloaded)
		if err != nil {
			return
		}
		onChange(rs)
	})
	return initial, nil
}
