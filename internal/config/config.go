// Package config parses the yetty CLI surface: flags plus the
// positional [font] [width] [height] triple, grounded on
// cmd/ggdemo's flag.Int/flag.String shape in the teacher repo.
package config

import (
	"flag"
	"fmt"
	"strconv"
	"time"
)

// Config is the fully-parsed CLI configuration for one run.
type Config struct {
	DemoDuration time.Duration // 0 means "not a demo run"
	NoDamage     bool
	DebugDamage  bool
	GenerateAtlas string
	LoadAtlas     string
	ShaderMapping string
	RemoteAddr    string

	Font   string
	Width  int
	Height int
}

// defaultWidth and defaultHeight match the teacher's own 800x600
// demo default, scaled down to a plausible terminal cell grid.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Parse parses args (typically os.Args[1:]) into a Config.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("yetty", flag.ContinueOnError)

	demo := fs.String("demo", "", "run a self-contained demo for the given duration (e.g. 5s), or 0 for unbounded")
	noDamage := fs.Bool("no-damage", false, "disable damage tracking; always upload the full grid")
	debugDamage := fs.Bool("debug-damage", false, "damage-highlight switch; stored in Config.DebugDamage, the yetty command does not act on it")
	generateAtlas := fs.String("generate-atlas", "", "atlas output path; stored in Config.GenerateAtlas, the yetty command does not act on it")
	loadAtlas := fs.String("load-atlas", "", "atlas input path; stored in Config.LoadAtlas, the yetty command does not act on it")
	shaderMapping := fs.String("shader-mapping", "", "path to the shader-glyph TOML mapping file")
	remoteAddr := fs.String("remote-addr", "", "listen address for the remote frame/input server (e.g. :9191); empty disables it")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		NoDamage:      *noDamage,
		DebugDamage:   *debugDamage,
		GenerateAtlas: *generateAtlas,
		LoadAtlas:     *loadAtlas,
		ShaderMapping: *shaderMapping,
		RemoteAddr:    *remoteAddr,
		Width:         defaultWidth,
		Height:        defaultHeight,
	}

	if *demo != "" {
		d, err := time.ParseDuration(*demo)
		if err != nil {
			if *demo == "0" {
				d = 0
			} else {
				return Config{}, fmt.Errorf("config: invalid --demo duration %q: %w", *demo, err)
			}
		}
		cfg.DemoDuration = d
	}

	rest := fs.Args()
	if len(rest) > 0 {
		cfg.Font = rest[0]
	}
	if len(rest) > 1 {
		w, err := strconv.Atoi(rest[1])
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid width %q: %w", rest[1], err)
		}
		cfg.Width = w
	}
	if len(rest) > 2 {
		h, err := strconv.Atoi(rest[2])
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid height %q: %w", rest[2], err)
		}
		cfg.Height = h
	}
	return cfg, nil
}
