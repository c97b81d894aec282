// Command oxy-gltf runs a script against the glTF plugin on a small in-memory map and prints
// the resulting entity state.
//
// Usage:
//
//	oxy-gltf -config oxy-gltf.yaml -script demo.lua -duration 2s
//
// The demo map holds -entities game objects with identifiers 1..n; entity 1 is the hero and the
// script runs as it, so SELF refers to entity 1.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine"
	"github.com/Carmen-Shannon/oxy-gltf/engine/animator"
	"github.com/Carmen-Shannon/oxy-gltf/engine/config"
	"github.com/Carmen-Shannon/oxy-gltf/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/Carmen-Shannon/oxy-gltf/engine/loader"
	"github.com/Carmen-Shannon/oxy-gltf/engine/mutator"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scripting"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

var errScriptType = errors.New("unsupported script type")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file (.yaml, .yml or .toml)")
	scriptPath := flag.String("script", "", "Lua (.lua) or tengo (.tengo) script run as the hero")
	duration := flag.Duration("duration", time.Second, "how long to tick after the script returns")
	entities := flag.Int("entities", 3, "number of entities on the demo map")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		log.Warn("unknown locale, using English", zap.String("locale", cfg.Locale), zap.Error(err))
		tag = language.English
	}

	objs := make([]game_object.GameObject, 0, *entities)
	for i := 1; i <= *entities; i++ {
		objs = append(objs, game_object.NewGameObject(
			game_object.WithID(i),
			game_object.WithHero(i == 1),
			game_object.WithPosition(float32(i-1)*cfg.Grid.SquareSize*2, 0, 0),
		))
	}
	town := scene.NewScene("town", scene.WithObjects(objs...), scene.WithLogger(log))
	stage := scene.NewStage(town)

	p := engine.NewPlugin(stage, stage,
		engine.WithLogger(log),
		engine.WithModelsDir(cfg.ModelsDir),
		engine.WithCache(cfg.Fetch.Cache),
		engine.WithWatch(cfg.Fetch.Watch),
		engine.WithFetcherOptions(
			loader.WithWorkers(cfg.Fetch.Workers),
			loader.WithQueueSize(cfg.Fetch.QueueSize),
		),
		engine.WithMixerOptions(animator.WithLogger(log.Named("animator"))),
		engine.WithGridPolicy(mutator.GridPolicy{
			SquareSize:       cfg.Grid.SquareSize,
			ScaleBoundingBox: cfg.Grid.ScaleBoundingBox,
			ScaleOffset:      cfg.Grid.ScaleOffset,
		}),
		engine.WithStaleWarnAfter(cfg.StaleRetry),
		engine.WithLocale(tag),
		engine.WithProfiling(cfg.Profiling),
		engine.WithTickInterval(cfg.TickInterval),
		engine.WithErrorSink(host.ErrorSinkFunc(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})),
		engine.WithEventSink(host.EventSinkFunc(func(eventID int) {
			log.Info("event detection", zap.Int("event", eventID))
		})),
		engine.WithDialog(host.DialogFunc(func(msg string) {
			fmt.Print(msg)
		})),
	)
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticking := make(chan struct{})
	go func() {
		defer close(ticking)
		p.Run()
	}()

	if *scriptPath != "" && len(objs) > 0 {
		inv := host.Invocation{Subject: objs[0]}
		if err := runScript(ctx, p, inv, *scriptPath, log); err != nil {
			p.Quit()
			<-ticking
			return err
		}
	}

	select {
	case <-ctx.Done():
	case <-time.After(*duration):
	}
	p.Quit()
	<-ticking

	printState(p, town)
	return nil
}

func runScript(ctx context.Context, p engine.Plugin, inv host.Invocation, path string, log *zap.Logger) error {
	opts := []scripting.HostBuilderOption{scripting.WithLogger(log), scripting.WithInvocation(inv)}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		h := scripting.NewLuaHost(p, opts...)
		defer h.Close()
		return h.DoFile(path)
	case ".tengo":
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		return scripting.NewTengoHost(p, opts...).Run(ctx, src)
	}
	return fmt.Errorf("%s: %w", path, errScriptType)
}

// printState writes one line per entity: its model transform and current clip.
func printState(p engine.Plugin, town scene.Scene) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ENTITY\tHERO\tPOSITION\tBOX\tSCALE\tYAW\tCLIP\tTIME")
	for _, obj := range town.Objects() {
		box, scale, yaw, clip, at := "-", "-", "-", "-", "-"
		if s := obj.BoundingBoxSettings(); s != nil && len(s.Boxes) > 0 {
			row := s.Boxes[0]
			box = fmt.Sprintf("%.2fx%.2fx%.2f", row[3], row[4], row[5])
		}
		if e := p.Registry().Entry(obj.ID()); e != nil {
			root := e.Root()
			scale = fmt.Sprintf("%.2f", root.Scale[0])
			yaw = fmt.Sprintf("%.1f", common.RadToDeg(root.Rotation()[1]))
			if cur := e.Current(); cur != nil {
				clip = cur.Clip().Name
				at = fmt.Sprintf("%.3f", cur.Time())
			}
		}
		pos := obj.Position()
		fmt.Fprintf(w, "%d\t%v\t%.1f,%.1f,%.1f\t%s\t%s\t%s\t%s\t%s\n",
			obj.ID(), obj.IsHero(), pos[0], pos[1], pos[2], box, scale, yaw, clip, at)
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
