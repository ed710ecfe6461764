// Command yetty renders a terminal cell grid through a GPU glyph
// atlas, optionally streaming frames to remote viewers and accepting
// their input over the same connection.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zokrezyl/yetty/engine"
	"github.com/zokrezyl/yetty/internal/config"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "yetty:", err)
		os.Exit(1)
	}

	e, err := engine.New(engine.Options{
		Cols:          cfg.Width,
		Rows:          cfg.Height,
		FontPath:      cfg.Font,
		FontSize:      18,
		AtlasEdge:     512,
		RemoteAddr:    cfg.RemoteAddr,
		Damage:        !cfg.NoDamage,
		ShaderMapping: cfg.ShaderMapping,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "yetty: startup failed:", err)
		os.Exit(1)
	}
	defer e.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.DemoDuration > 0 {
		var demoCancel context.CancelFunc
		ctx, demoCancel = context.WithTimeout(ctx, cfg.DemoDuration)
		defer demoCancel()
	}

	if err := e.Run(ctx); err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		fmt.Fprintln(os.Stderr, "yetty: run failed:", err)
		os.Exit(1)
	}
}
