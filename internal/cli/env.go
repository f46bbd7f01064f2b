package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/second-brain/core/internal/app"
	"github.com/second-brain/core/internal/config"
	"github.com/second-brain/core/internal/modules/content/note"
	"github.com/second-brain/core/internal/modules/processing/ai"
)

// env is what a single command invocation runs against.
type env struct {
	cfg  *config.AppConfig
	log  *zap.Logger
	out  io.Writer
	json bool
}

func (o *globalOptions) env(out io.Writer) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	log := zap.NewNop()
	if o.verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
	}
	return &env{cfg: cfg, log: log, out: out, json: o.jsonOutput}, nil
}

func (e *env) gateway() *ai.Gateway {
	return ai.New(ai.Options{
		Provider: e.cfg.AI.ActiveProvider(),
		Timeout:  e.cfg.AI.RequestTimeout(),
		Logger:   e.log.Named("AIGateway"),
	})
}

// withStore opens the configured note store for the duration of fn.
func (e *env) withStore(ctx context.Context, fn func(note.Store) error) error {
	store, _, closer, err := app.OpenStore(ctx, e.cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() {
			if err := closer(context.Background()); err != nil {
				e.log.Warn("close note store", zap.Error(err))
			}
		}()
	}
	return fn(store)
}

var (
	heading = color.New(color.FgGreen, color.Bold).SprintFunc()
	accent  = color.New(color.FgCyan, color.Bold).SprintFunc()
	muted   = color.New(color.FgHiBlack).SprintFunc()
)

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

func aiLabel(generated bool) string {
	if generated {
		return accent("AI")
	}
	return muted("fallback")
}
