package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/andrewpillar/cli"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/shcv/nccl/internal/export"
	"github.com/shcv/nccl/loader"
	"github.com/shcv/nccl/watch"
)

var usage = `usage: nccl <command> [arguments]

commands:
  parse [-f format] FILE...   load FILE layers, highest priority first, and
                              print them as nccl, json, yaml or toml
  fmt FILE                    print FILE in canonical form
  get [--quoted] FILE KEY...  print the values under a key path
  watch FILE...               print the configuration every time it changes

environment:
  NCCL_LOG_LEVEL              log level (default warn)
  NCCL_FORMAT                 default output format for parse (default json)
  NCCL_DEBOUNCE               delay before reloading in watch (default 100ms)`

// settings are read from NCCL_* environment variables.
type settings struct {
	LogLevel string        `envconfig:"LOG_LEVEL" default:"warn"`
	Format   string        `default:"json"`
	Debounce time.Duration `default:"100ms"`
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], err)
	os.Exit(1)
}

func newLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "NCCL_LOG_LEVEL")
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return log, nil
}

func parse(w io.Writer, l *loader.Loader, format string, paths []string) error {
	if len(paths) == 0 {
		return errors.New("parse: no files given")
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg, err := l.LoadLayered(paths...)
	if err != nil {
		return err
	}
	return export.Encode(w, cfg, f)
}

func format(w io.Writer, l *loader.Loader, path string) error {
	if path == "" {
		return errors.New("fmt: no file given")
	}

	cfg, err := l.Load(path)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, cfg.PrettyPrint())
	return err
}

func get(w io.Writer, l *loader.Loader, quoted bool, path string, keys []string) error {
	if path == "" {
		return errors.New("get: no file given")
	}

	cfg, err := l.Load(path)
	if err != nil {
		return err
	}

	n, err := cfg.At(keys...)
	if err != nil {
		return errors.Wrap(err, strings.Join(keys, "/"))
	}

	for _, child := range n.Children() {
		s := child.Key()

		if quoted {
			if s, err = child.ParseQuoted(); err != nil {
				return errors.Wrap(err, child.Key())
			}
		}

		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}

func printSnapshot(w io.Writer, snap *watch.Snapshot) {
	fmt.Fprintf(w, "# %s %s\n", snap.ID, snap.LoadedAt.Format(time.RFC3339))
	io.WriteString(w, snap.Config.PrettyPrint())
}

func watchFiles(ctx context.Context, w io.Writer, l *loader.Loader, log *logrus.Logger, debounce time.Duration, paths []string) error {
	wt, err := watch.New(l, paths, watch.WithDebounce(debounce), watch.WithLogger(log))
	if err != nil {
		return err
	}
	defer wt.Close()

	printSnapshot(w, wt.Current())

	wt.Subscribe(func(snap *watch.Snapshot) {
		printSnapshot(w, snap)
	})

	if err := wt.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// errUsage is reported when no command is given.
var errUsage = errors.New("no command given")

// newCLI builds the command line interface. Output goes to w and the first
// error a command hits is stored in *errp.
func newCLI(w io.Writer, env settings, log *logrus.Logger, errp *error) *cli.Cli {
	l := loader.New(loader.WithLogger(log))

	c := cli.New()

	c.AddFlag(&cli.Flag{
		Name:      "help",
		Long:      "--help",
		Exclusive: true,
		Handler: func(f cli.Flag, c cli.Command) {
			fmt.Fprintln(w, usage)
		},
	})

	c.MainCommand(func(c cli.Command) {
		*errp = errUsage
	})

	parseCmd := c.Command("parse", func(c cli.Command) {
		*errp = parse(w, l, c.Flags.GetString("format"), c.Args)
	})

	parseCmd.AddFlag(&cli.Flag{
		Name:     "format",
		Short:    "-f",
		Long:     "--format",
		Argument: true,
		Default:  env.Format,
	})

	c.Command("fmt", func(c cli.Command) {
		*errp = format(w, l, c.Args.Get(0))
	})

	getCmd := c.Command("get", func(c cli.Command) {
		var keys []string

		if len(c.Args) > 1 {
			keys = c.Args[1:]
		}
		*errp = get(w, l, c.Flags.IsSet("quoted"), c.Args.Get(0), keys)
	})

	getCmd.AddFlag(&cli.Flag{
		Name: "quoted",
		Long: "--quoted",
	})

	c.Command("watch", func(c cli.Command) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		*errp = watchFiles(ctx, w, l, log, env.Debounce, c.Args)
	})

	return c
}

func main() {
	var env settings

	if err := envconfig.Process("nccl", &env); err != nil {
		fatal(err)
	}

	log, err := newLogger(env.LogLevel)
	if err != nil {
		fatal(err)
	}

	var cmdErr error

	c := newCLI(os.Stdout, env, log, &cmdErr)

	if err := c.Run(os.Args[1:]); err != nil {
		fatal(err)
	}

	if cmdErr != nil {
		if errors.Is(cmdErr, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(1)
		}
		fatal(cmdErr)
	}
}
