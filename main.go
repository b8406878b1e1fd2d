// okinoko-ledger runs the governance ledger.
//
// "serve" exposes it over HTTP. The other commands sign a transaction with
// a local key file and apply it directly against the configured store,
// which is handy for seeding, scripting and poking at a database offline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"okinoko_ledger/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// usageError is a command line mistake. It exits with status 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }
func (e usageError) ExitCode() int { return 2 }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

type flags struct {
	configPath string
	keyPath    string
	backend    string
	storePath  string
	listen     string
	logLevel   string

	duration int64
	evm      bool
	out      string
	offset   uint64
	limit    uint64
}

func (f *flags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&f.configPath, "config", "c", "", "path to the YAML config file (default: $"+config.EnvVar+")")
	flagSet.StringVarP(&f.keyPath, "key", "k", "", "key file used to sign transactions")
	flagSet.StringVar(&f.backend, "store", "", "override store.backend (memory, badger, sqlite)")
	flagSet.StringVar(&f.storePath, "store-path", "", "override store.path")
	flagSet.StringVar(&f.listen, "listen", "", "override server.listen")
	flagSet.StringVar(&f.logLevel, "log-level", "", "override log.level")

	flagSet.Int64Var(&f.duration, "duration", 0, "propose: voting window in seconds")
	flagSet.BoolVar(&f.evm, "evm", false, "keygen: create a secp256k1 key instead of ed25519")
	flagSet.StringVarP(&f.out, "out", "o", "", "keygen: write the secret to this file")
	flagSet.Uint64Var(&f.offset, "offset", 0, "show: first proposal id to list")
	flagSet.Uint64Var(&f.limit, "limit", 0, "show: proposals per page (max 100)")
}

// apply copies explicitly set flags over cfg.
func (f *flags) apply(flagSet *pflag.FlagSet, cfg *config.Config) {
	if flagSet.Changed("store") {
		cfg.Store.Backend = f.backend
	}
	if flagSet.Changed("store-path") {
		cfg.Store.Path = f.storePath
	}
	if flagSet.Changed("listen") {
		cfg.Server.Listen = f.listen
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var f flags
	flagSet := pflag.NewFlagSet("okinoko-ledger", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	f.register(flagSet)
	flagSet.Usage = func() { printHelp(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usageError{msg: err.Error()}
	}
	if flagSet.NArg() == 0 {
		printHelp(stderr, flagSet)
		return usagef("no command given")
	}
	name, rest := flagSet.Arg(0), flagSet.Args()[1:]

	cmd, ok := commands[name]
	if !ok {
		return usagef("unknown command %q", name)
	}
	if len(rest) < cmd.minArgs || len(rest) > cmd.maxArgs {
		return usagef("usage: okinoko-ledger %s", cmd.usage)
	}

	cfg, err := config.Load(config.Path(f.configPath))
	if err != nil {
		return err
	}
	f.apply(flagSet, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return err
	}

	c := &cli{flags: f, flagSet: flagSet, cfg: cfg, logger: logger, stdout: stdout}
	if cmd.offline {
		return cmd.run(ctx, c, rest)
	}
	rt, err := openRuntime(ctx, cfg, logger, !cmd.longRunning)
	if err != nil {
		return err
	}
	defer rt.Close()
	c.rt = rt
	return cmd.run(ctx, c, rest)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `okinoko-ledger: proposals and one-vote-per-identity ballots

Usage:
  okinoko-ledger <command> [flags]

Commands:
`)
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-48s %s\n", commands[name].usage, commands[name].summary)
	}
	fmt.Fprintf(w, "\nFlags:\n")
	flagSet.PrintDefaults()
}
