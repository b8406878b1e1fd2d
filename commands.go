package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"okinoko_ledger/config"
	"okinoko_ledger/contract"
	"okinoko_ledger/contract/dao"
	"okinoko_ledger/sdk"
	"okinoko_ledger/server"
)

// cli is what a command gets to work with. rt is nil for offline commands.
type cli struct {
	flags   flags
	flagSet *pflag.FlagSet
	cfg     *config.Config
	logger  *slog.Logger
	stdout  io.Writer
	rt      *runtime
}

type command struct {
	usage   string
	summary string
	minArgs int
	maxArgs int
	// offline commands never open the store.
	offline bool
	// longRunning commands never buffer event lines for printing.
	longRunning bool
	run             func(ctx context.Context, c *cli, args []string) error
}

var commandOrder = []string{"serve", "keygen", "init", "propose", "vote", "finalize", "show", "seed"}

var commands = map[string]command{
	"serve": {
		usage:       "serve",
		summary:     "serve the HTTP API",
		longRunning: true,
		run:         runServe,
	},
	"keygen": {
		usage:   "keygen [--evm] [--out file]",
		summary: "create a signing key",
		offline: true,
		run:     runKeygen,
	},
	"init": {
		usage:   "init <name>",
		summary: "initialize the organization, signer becomes authority",
		minArgs: 1, maxArgs: 1,
		run: runInit,
	},
	"propose": {
		usage:   "propose <title> <description> [--duration s]",
		summary: "create a proposal",
		minArgs: 2, maxArgs: 2,
		run: runPropose,
	},
	"vote": {
		usage:   "vote <id> <yes|no|abstain>",
		summary: "cast a ballot",
		minArgs: 2, maxArgs: 2,
		run: runVote,
	},
	"finalize": {
		usage:   "finalize <id>",
		summary: "close a proposal (authority only)",
		minArgs: 1, maxArgs: 1,
		run: runFinalize,
	},
	"show": {
		usage:   "show [id]",
		summary: "print the organization and proposals, or one proposal with results",
		maxArgs: 1,
		run:     runShow,
	},
	"seed": {
		usage:   "seed <file.yaml>",
		summary: "initialize if needed and create the proposals listed in a file",
		minArgs: 1, maxArgs: 1,
		run: runSeed,
	},
}

func runServe(ctx context.Context, c *cli, _ []string) error {
	srv := server.New(c.rt.ledger, c.logger, c.cfg.Server.AllowOrigins)
	return srv.Run(ctx, c.cfg.Server.Listen)
}

func runKeygen(_ context.Context, c *cli, _ []string) error {
	var (
		address sdk.Address
		secret  string
	)
	if c.flags.evm {
		signer, err := sdk.GenerateEVM()
		if err != nil {
			return err
		}
		address, secret = signer.Address(), signer.Secret()
	} else {
		signer, err := sdk.GenerateEd25519()
		if err != nil {
			return err
		}
		address, secret = signer.Address(), signer.Secret()
	}

	if c.flags.out == "" {
		fmt.Fprintf(c.stdout, "address: %s\nsecret:  %s\n", address, secret)
		return nil
	}
	file, err := os.OpenFile(c.flags.out, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("writing key file: %w", err)
	}
	if _, err := fmt.Fprintln(file, secret); err != nil {
		file.Close()
		return fmt.Errorf("writing key file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("writing key file: %w", err)
	}
	fmt.Fprintf(c.stdout, "address: %s\nkey written to %s\n", address, c.flags.out)
	return nil
}

func runInit(ctx context.Context, c *cli, args []string) error {
	signer, err := loadSigner(c.flags.keyPath)
	if err != nil {
		return err
	}
	return c.submit(ctx, signer, contract.ActionInitialize, contract.InitializeArgs{Name: args[0]})
}

func runPropose(ctx context.Context, c *cli, args []string) error {
	signer, err := loadSigner(c.flags.keyPath)
	if err != nil {
		return err
	}
	proposal := contract.CreateProposalArgs{Title: args[0], Description: args[1]}
	if c.flagSet.Changed("duration") {
		duration := c.flags.duration
		proposal.VotingDuration = &duration
	}
	return c.submit(ctx, signer, contract.ActionCreateProposal, proposal)
}

func runVote(ctx context.Context, c *cli, args []string) error {
	id, err := parseProposalID(args[0])
	if err != nil {
		return err
	}
	choice, err := dao.ParseVoteChoice(args[1])
	if err != nil {
		return usagef("%v", err)
	}
	signer, err := loadSigner(c.flags.keyPath)
	if err != nil {
		return err
	}
	return c.submit(ctx, signer, contract.ActionCastVote, contract.CastVoteArgs{ProposalID: id, Choice: choice})
}

func runFinalize(ctx context.Context, c *cli, args []string) error {
	id, err := parseProposalID(args[0])
	if err != nil {
		return err
	}
	signer, err := loadSigner(c.flags.keyPath)
	if err != nil {
		return err
	}
	return c.submit(ctx, signer, contract.ActionFinalizeProposal, contract.FinalizeProposalArgs{ProposalID: id})
}

func runShow(ctx context.Context, c *cli, args []string) error {
	ledger := c.rt.ledger
	if len(args) == 1 {
		id, err := parseProposalID(args[0])
		if err != nil {
			return err
		}
		prpsl, err := ledger.Proposal(ctx, id)
		if err != nil {
			return err
		}
		results, err := ledger.Results(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(c.stdout, map[string]any{"proposal": prpsl, "results": results})
	}

	org, err := ledger.Organization(ctx)
	if err != nil {
		return err
	}
	proposals, err := ledger.Proposals(ctx, c.flags.offset, c.flags.limit)
	if err != nil {
		return err
	}
	return printJSON(c.stdout, map[string]any{"organization": org, "proposals": proposals})
}

// submit signs args as a transaction envelope, checks the signature the
// same way the HTTP endpoint does, and applies it.
func (c *cli) submit(ctx context.Context, signer sdk.Signer, action string, args json.Marshaler) error {
	result, err := c.rt.apply(ctx, signer, action, args)
	if err != nil {
		return err
	}
	c.rt.flushEvents(c.stdout)
	return printJSON(c.stdout, result)
}

// loadSigner reads a key file: a base58 ed25519 secret, or a 0x hex
// secp256k1 key for evm identities.
func loadSigner(path string) (sdk.Signer, error) {
	if path == "" {
		return nil, usagef("--key is required to sign transactions")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	secret := strings.TrimSpace(string(data))
	if strings.HasPrefix(secret, "0x") {
		return sdk.EVMFromHex(secret)
	}
	return sdk.Ed25519FromSecret(secret)
}

func parseProposalID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, usagef("proposal id must be a non-negative integer, got %q", raw)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// isNotInitialized reports whether err means the organization does not exist yet.
func isNotInitialized(err error) bool {
	return errors.Is(err, contract.ErrNotInitialized)
}
