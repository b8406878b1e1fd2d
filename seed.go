package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"okinoko_ledger/contract"
	"okinoko_ledger/contract/dao"
)

// seedFile lists proposals to create in order. Organization is only used
// when the ledger has not been initialized yet.
type seedFile struct {
	Organization string         `yaml:"organization"`
	Proposals    []seedProposal `yaml:"proposals"`
}

type seedProposal struct {
	Title          string `yaml:"title"`
	Description    string `yaml:"description"`
	VotingDuration *int64 `yaml:"voting_duration,omitempty"`
}

func loadSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	var errs []error
	for i, p := range seed.Proposals {
		if p.Title == "" {
			errs = append(errs, fmt.Errorf("proposals[%d]: title is required", i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &seed, nil
}

func runSeed(ctx context.Context, c *cli, args []string) error {
	seed, err := loadSeedFile(args[0])
	if err != nil {
		return err
	}
	signer, err := loadSigner(c.flags.keyPath)
	if err != nil {
		return err
	}
	ledger := c.rt.ledger

	org, err := ledger.Organization(ctx)
	switch {
	case err == nil:
		c.logger.InfoContext(ctx, "organization already initialized", "name", org.Name)
	case isNotInitialized(err):
		if seed.Organization == "" {
			return fmt.Errorf("ledger is not initialized and the seed file names no organization")
		}
		if _, err := c.rt.apply(ctx, signer, contract.ActionInitialize, contract.InitializeArgs{Name: seed.Organization}); err != nil {
			return err
		}
	default:
		return err
	}

	for i, p := range seed.Proposals {
		result, err := c.rt.apply(ctx, signer, contract.ActionCreateProposal, contract.CreateProposalArgs{
			Title:          p.Title,
			Description:    p.Description,
			VotingDuration: p.VotingDuration,
		})
		if err != nil {
			return fmt.Errorf("proposals[%d] %q: %w", i, p.Title, err)
		}
		if prpsl, ok := result.(*dao.Proposal); ok {
			c.logger.InfoContext(ctx, "seeded proposal", "id", prpsl.ID, "title", prpsl.Title)
		}
	}

	c.rt.flushEvents(c.stdout)
	fmt.Fprintf(c.stdout, "seeded %d proposals\n", len(seed.Proposals))
	return nil
}
