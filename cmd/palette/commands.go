package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/palette-forge/app"
	paletteservice "github.com/Black-And-White-Club/palette-forge/app/modules/palette/application"
	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
	"github.com/Black-And-White-Club/palette-forge/config"
	"github.com/Black-And-White-Club/palette-forge/db/bundb"
	"github.com/Black-And-White-Club/palette-forge/pkg/observability"
	palettemetrics "github.com/Black-And-White-Club/palette-forge/pkg/observability/metrics/palette"
)

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and the bus handlers",
		Action: func(c *cli.Context) error {
			return app.Start(c.Context, c.String("config"))
		},
	}
}

func newGenerateCommand() *cli.Command {
	defaults := palettedomain.DefaultControls()
	return &cli.Command{
		Name:  "generate",
		Usage: "print a palette, one hex color per line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base", Value: defaults.BaseColor, Usage: "base color as #RRGGBB"},
			&cli.StringFlag{Name: "mode", Value: string(defaults.Mode), Usage: "monochromatic, analogous, complementary or triadic"},
			&cli.IntFlag{Name: "count", Value: defaults.Count, Usage: "number of colors"},
			&cli.IntFlag{Name: "hue-shift", Value: defaults.HueShift, Usage: "degrees added to the base hue"},
			&cli.IntFlag{Name: "saturation", Value: defaults.Saturation, Usage: "replaces the base saturation (0-100)"},
			&cli.IntFlag{Name: "lightness", Value: defaults.Lightness, Usage: "replaces the base lightness (0-100)"},
			&cli.Uint64Flag{Name: "seed", Usage: "fixes the analogous jitter; 0 is random"},
		},
		Action: func(c *cli.Context) error {
			obs, err := commandObservability(c, nil)
			if err != nil {
				return err
			}
			service := paletteservice.NewPaletteService(nil, obs.Provider.Logger, palettemetrics.NewNoop(), obs.Registry.Tracer, nil,
				paletteservice.Settings{Seed: c.Uint64("seed")})

			colors, err := service.Generate(c.Context, palettedomain.Request{
				BaseColor:  c.String("base"),
				Mode:       palettedomain.Mode(c.String("mode")),
				Count:      c.Int("count"),
				HueShift:   c.Int("hue-shift"),
				Saturation: c.Int("saturation"),
				Lightness:  c.Int("lightness"),
			})
			if err != nil {
				return err
			}
			for _, color := range colors {
				fmt.Fprintln(c.App.Writer, color)
			}
			return nil
		},
	}
}

func newSavedCommand() *cli.Command {
	return &cli.Command{
		Name:  "saved",
		Usage: "manage saved palettes",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list saved palettes, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "since", Usage: `only palettes saved since, e.g. "yesterday" or 2026-10-01`},
				},
				Action: withService(func(c *cli.Context, service paletteservice.Service) error {
					palettes, err := service.ListSaved(c.Context, c.String("since"))
					if err != nil {
						return err
					}
					for _, p := range palettes {
						fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\n", p.ID, p.Date, strings.Join(p.Colors, " "))
					}
					return nil
				}),
			},
			{
				Name:      "show",
				Usage:     "print one saved palette",
				ArgsUsage: "ID",
				Action: withService(func(c *cli.Context, service paletteservice.Service) error {
					id, err := paletteIDArg(c, 0)
					if err != nil {
						return err
					}
					saved, err := service.GetSaved(c.Context, id)
					if err != nil {
						return err
					}
					printSaved(c, saved)
					return nil
				}),
			},
			{
				Name:      "save",
				Usage:     "save explicit colors",
				ArgsUsage: "COLOR...",
				Action: withService(func(c *cli.Context, service paletteservice.Service) error {
					saved, err := service.SaveColors(c.Context, c.Args().Slice())
					if err != nil {
						return err
					}
					printSaved(c, saved)
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete a saved palette",
				ArgsUsage: "ID",
				Action: withService(func(c *cli.Context, service paletteservice.Service) error {
					id, err := paletteIDArg(c, 0)
					if err != nil {
						return err
					}
					if err := service.DeleteSaved(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Deleted palette %d\n", id)
					return nil
				}),
			},
			{
				Name:      "export",
				Usage:     "write every saved palette to an XLSX workbook",
				ArgsUsage: "FILE.xlsx",
				Action: withService(func(c *cli.Context, service paletteservice.Service) error {
					path := c.Args().First()
					if path == "" {
						return fmt.Errorf("missing output file")
					}
					return writeFile(path, func(f *os.File) error {
						return service.ExportXLSX(c.Context, f)
					})
				}),
			},
			{
				Name:      "swatch",
				Usage:     "render a saved palette as a PNG strip",
				ArgsUsage: "ID FILE.png",
				Action: withService(func(c *cli.Context, service paletteservice.Service) error {
					id, err := paletteIDArg(c, 0)
					if err != nil {
						return err
					}
					path := c.Args().Get(1)
					if path == "" {
						return fmt.Errorf("missing output file")
					}
					return writeFile(path, func(f *os.File) error {
						return service.RenderSwatch(c.Context, id, f)
					})
				}),
			},
		},
	}
}

// withService opens the configured store and hands a service over it to action.
func withService(action func(*cli.Context, paletteservice.Service) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, cfg, obs, err := openStore(c)
		if err != nil {
			return err
		}
		defer db.Close()

		service := paletteservice.NewPaletteService(
			palettedb.NewRepository(db), obs.Provider.Logger, palettemetrics.NewNoop(), obs.Registry.Tracer, db,
			paletteservice.Settings{Defaults: cfg.Palette.Defaults, MaxColors: cfg.Palette.MaxColors},
		)
		return action(c, service)
	}
}

// commandObservability logs to the app's error stream at the --log-level
// level. cfg may be nil for commands that never touch the store.
func commandObservability(c *cli.Context, cfg *config.Config) (observability.Observability, error) {
	obsCfg := observability.Config{ServiceName: "palette-cli"}
	if cfg != nil {
		obsCfg = config.ToObsConfig(cfg)
		obsCfg.ServiceName = "palette-cli"
		obsCfg.MetricsAddress = ""
	}
	obsCfg.LogLevel = c.String("log-level")
	return observability.InitWithWriter(c.Context, c.App.ErrWriter, obsCfg)
}

// loadCommandConfig reads the configuration and builds the command logger.
func loadCommandConfig(c *cli.Context) (*config.Config, observability.Observability, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, observability.Observability{}, fmt.Errorf("failed to load config: %w", err)
	}
	obs, err := commandObservability(c, cfg)
	if err != nil {
		return nil, observability.Observability{}, err
	}
	return cfg, obs, nil
}

// openStore opens and migrates the configured store.
func openStore(c *cli.Context) (*bun.DB, *config.Config, observability.Observability, error) {
	cfg, obs, err := loadCommandConfig(c)
	if err != nil {
		return nil, nil, obs, err
	}
	logger := obs.Provider.Logger

	db, err := bundb.Open(c.Context, cfg, logger)
	if err != nil {
		return nil, nil, obs, err
	}
	if err := app.Migrate(c.Context, db, logger); err != nil {
		db.Close()
		return nil, nil, obs, err
	}
	return db, cfg, obs, nil
}

func paletteIDArg(c *cli.Context, n int) (int64, error) {
	raw := c.Args().Get(n)
	if raw == "" {
		return 0, fmt.Errorf("missing palette id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("palette id must be an integer: %q", raw)
	}
	return id, nil
}

func printSaved(c *cli.Context, saved *palettedb.SavedPalette) {
	fmt.Fprintf(c.App.Writer, "%d\t%s\n", saved.ID, saved.Date)
	for _, color := range saved.Colors {
		fmt.Fprintln(c.App.Writer, color)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
