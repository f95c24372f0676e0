package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp writes command output to out and logs to errOut.
func newApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "palette",
		Usage:     "generate, save and export color palettes",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"PALETTE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "log level for commands other than serve",
				EnvVars: []string{"PALETTE_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newGenerateCommand(),
			newSavedCommand(),
			newMigrateCommand(),
		},
	}
}
