// ffbetool rebuilds FFBE unit animations from exported atlases and part
// tables into spritesheets and animated images.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/Faultbox/ffbetool/internal/chardb"
	"github.com/Faultbox/ffbetool/internal/config"
	"github.com/Faultbox/ffbetool/internal/logger"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:      "ffbetool",
		Usage:     "rebuild FFBE unit animations into spritesheets",
		Version:   version,
		ArgsUsage: "<unit-id|name>",
		Flags: append(commonFlags(),
			&cli.StringFlag{Name: "anim", Aliases: []string{"a"}, Usage: "animation to render (default: all)"},
			&cli.IntFlag{Name: "columns", Aliases: []string{"c"}, Usage: "spritesheet columns (0 = single row)"},
			&cli.BoolFlag{Name: "empty", Aliases: []string{"e"}, Usage: "keep frames without visible pixels"},
			&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "write JSON metadata"},
			&cli.BoolFlag{Name: "gif", Usage: "write an animated GIF"},
			&cli.BoolFlag{Name: "apng", Usage: "write an animated PNG"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output directory"},
			&cli.StringFlag{Name: "dump-config", Usage: "write the effective config to `FILE`"},
		),
		Action: runRender,
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list the animations of a unit",
				ArgsUsage: "<unit-id|name>",
				Action:    runList,
			},
			{
				Name:      "lookup",
				Usage:     "search the character database by name",
				ArgsUsage: "<name>",
				Action:    runLookup,
			},
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "path to config `FILE`"},
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "input directory"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		&cli.StringFlag{Name: "log-file", Usage: "also log to `FILE`"},
	}
}

func overrides(cmd *cli.Command) config.Overrides {
	str := func(name string) *string {
		if !cmd.IsSet(name) {
			return nil
		}
		v := cmd.String(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !cmd.IsSet(name) {
			return nil
		}
		v := cmd.Bool(name)
		return &v
	}

	ov := config.Overrides{
		InputDir:     str("input"),
		OutputDir:    str("output"),
		IncludeEmpty: boolean("empty"),
		JSON:         boolean("json"),
		GIF:          boolean("gif"),
		APNG:         boolean("apng"),
		Verbose:      cmd.Bool("verbose"),
		LogFile:      str("log-file"),
	}
	if cmd.IsSet("columns") {
		columns := int(cmd.Int("columns"))
		ov.Columns = &columns
	}
	return ov
}

// setup loads the config and starts logging for one run.
func setup(cmd *cli.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cmd.String("config"), overrides(cmd))
	if err != nil {
		return nil, nil, err
	}

	opts := logger.Options{
		Level: cfg.Logging.Level,
		RunID: uuid.Must(uuid.NewV7()).String(),
	}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	log, err := logger.Init(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	if cfg.Source != "" {
		log.Debug("config loaded", zap.String("path", cfg.Source))
	}

	if path := cmd.String("dump-config"); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return nil, nil, fmt.Errorf("saving config: %w", err)
		}
		log.Info("config written", zap.String("path", path))
	}
	return cfg, log, nil
}

func unitArg(cmd *cli.Command) (string, error) {
	if cmd.NArg() < 1 {
		return "", fmt.Errorf("missing unit id or name, usage: %s %s", cmd.FullName(), cmd.ArgsUsage)
	}
	return cmd.Args().First(), nil
}

func loadCharDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*chardb.DB, error) {
	return chardb.Load(ctx, chardb.Source{
		Path:      cfg.CharDB.Path,
		RemoteURL: cfg.CharDB.RemoteURL,
		Timeout:   cfg.CharDB.Timeout,
	}, log)
}

// resolveUnit accepts a numeric unit id or a character name.
func resolveUnit(ctx context.Context, arg string, cfg *config.Config, log *zap.Logger) (int, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		return id, nil
	}

	db, err := loadCharDB(ctx, cfg, log)
	if err != nil {
		return 0, fmt.Errorf("resolving %q: %w", arg, err)
	}
	id, err := db.Resolve(arg)
	if err != nil {
		var amb *chardb.AmbiguousNameError
		if errors.As(err, &amb) {
			fmt.Fprintln(os.Stderr, "Did you mean one of the following? Try again with the unit id.")
		}
		return 0, err
	}
	log.Info("resolved unit", zap.String("name", arg), zap.Int("unit", id))
	return id, nil
}

func runLookup(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if cmd.NArg() < 1 {
		return fmt.Errorf("missing name, usage: %s %s", cmd.FullName(), cmd.ArgsUsage)
	}

	db, err := loadCharDB(ctx, cfg, log)
	if err != nil {
		return err
	}

	res := db.Lookup(cmd.Args().First())
	switch res.Kind {
	case chardb.Found:
		c, _ := db.Get(res.ID)
		fmt.Printf("%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, c.Rarity)
	case chardb.Multiple:
		for _, c := range res.Candidates {
			fmt.Printf("%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, c.Rarity)
		}
	default:
		return fmt.Errorf("%w: %q", chardb.ErrCharacterNotFound, cmd.Args().First())
	}
	return nil
}
