package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/Faultbox/ffbetool/internal/assets"
	"github.com/Faultbox/ffbetool/internal/config"
	"github.com/Faultbox/ffbetool/internal/export"
	"github.com/Faultbox/ffbetool/internal/unit"
	"github.com/Faultbox/ffbetool/pkg/formats"
)

func runRender(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	arg, err := unitArg(cmd)
	if err != nil {
		return err
	}
	unitID, err := resolveUnit(ctx, arg, cfg, log)
	if err != nil {
		return err
	}

	anim := cmd.String("anim")
	store := assets.NewStore(cfg.Input.Dir)
	if err := store.Validate(unitID, anim); err != nil {
		return err
	}
	if err := assets.EnsureOutputDir(cfg.Output.Dir); err != nil {
		return err
	}

	start := time.Now()
	atlas, err := store.LoadAtlas(unitID)
	if err != nil {
		return err
	}
	templates, err := loadTemplates(store, unitID)
	if err != nil {
		return err
	}
	log.Info("unit loaded",
		zap.Int("unit", unitID),
		zap.Int("templates", len(templates)),
		zap.Stringer("atlas", atlas.Bounds().Size()),
	)

	writer := export.NewWriter(cfg.Output.Dir, log)
	outputs := export.Formats{JSON: cfg.Output.JSON, GIF: cfg.Output.GIF, APNG: cfg.Output.APNG}
	opts := unit.Options{
		Logger:       log,
		IncludeEmpty: cfg.Output.IncludeEmpty,
		Columns:      cfg.Output.Columns,
		Workers:      cfg.Render.Workers,
	}

	if anim != "" {
		return renderOne(store, writer, outputs, unit.NewProcessor(unitID, atlas, templates, opts), unitID, anim)
	}

	anims, err := store.DiscoverAnimations(unitID)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(anims),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(fmt.Sprintf("unit %d", unitID)),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	opts.OnAnimationDone = func(name string, err error) {
		_ = bar.Add(1)
	}

	var size int64
	proc := unit.NewProcessor(unitID, atlas, templates, opts)
	report, err := proc.All(anims,
		func(name string) (io.ReadCloser, error) { return store.OpenCGS(unitID, name) },
		func(res *unit.Result) error {
			paths, err := writer.Write(res, outputs)
			size += totalSize(paths)
			return err
		},
	)
	_ = bar.Finish()

	fmt.Printf("Unit %d: %d/%d animations in %s (%s written)\n",
		unitID, len(report.Processed), len(anims),
		time.Since(start).Round(time.Millisecond), humanize.Bytes(uint64(size)))
	for name, ferr := range report.Failed {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", name, ferr)
	}
	if err != nil && len(report.Processed) == 0 {
		return fmt.Errorf("no animation of unit %d could be rendered", unitID)
	}
	return nil
}

func renderOne(store *assets.Store, writer *export.Writer, outputs export.Formats, proc *unit.Processor, unitID int, anim string) error {
	rc, err := store.OpenCGS(unitID, anim)
	if err != nil {
		return err
	}
	defer rc.Close()

	res, err := proc.Animation(anim, rc)
	if err != nil {
		return err
	}
	paths, err := writer.Write(res, outputs)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func loadTemplates(store *assets.Store, unitID int) ([]formats.FrameTemplate, error) {
	rc, err := store.OpenCGG(unitID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return unit.LoadTemplates(rc)
}

func totalSize(paths []string) int64 {
	var n int64
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			n += info.Size()
		}
	}
	return n
}

func runList(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	arg, err := unitArg(cmd)
	if err != nil {
		return err
	}
	unitID, err := resolveUnit(ctx, arg, cfg, log)
	if err != nil {
		return err
	}

	return listAnimations(os.Stdout, cfg, unitID)
}

func listAnimations(w io.Writer, cfg *config.Config, unitID int) error {
	store := assets.NewStore(cfg.Input.Dir)
	templates, err := formats.ParseCGGFile(store.CGGPath(unitID))
	if err != nil {
		return err
	}
	empty := 0
	for _, t := range templates {
		if t.IsEmpty() {
			empty++
		}
	}
	fmt.Fprintf(w, "unit %d: %d frame templates (%d empty)\n", unitID, len(templates), empty)

	anims, err := store.DiscoverAnimations(unitID)
	if err != nil {
		return err
	}

	for _, anim := range anims {
		entries, err := formats.ParseCGSFile(store.CGSPath(unitID, anim))
		if err != nil {
			fmt.Fprintf(w, "%-20s %-16s error: %v\n", anim, formats.AnimationLabel(anim), err)
			continue
		}
		var ticks uint64
		for _, e := range entries {
			ticks += uint64(e.Delay)
		}
		fmt.Fprintf(w, "%-20s %-16s %3d frames  %s\n",
			anim, formats.AnimationLabel(anim), len(entries),
			time.Duration(ticks)*time.Second/60)
	}
	return nil
}
