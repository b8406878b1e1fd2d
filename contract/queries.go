package contract

import (
	"context"
	"fmt"

	"okinoko_ledger/contract/dao"
	"okinoko_ledger/sdk"
	"okinoko_ledger/store"
)

// Results is the live tally of a proposal.
type Results struct {
	ProposalID   uint64             `json:"proposal_id"`
	Status       dao.ProposalStatus `json:"status"`
	YesVotes     uint64             `json:"yes_votes"`
	NoVotes      uint64             `json:"no_votes"`
	AbstainVotes uint64             `json:"abstain_votes"`
	TotalVotes   uint64             `json:"total_votes"`
	// Passed is the outcome finalizing right now would report.
	Passed bool `json:"passed"`
	// Leading is "yes", "no" or "tie".
	Leading   string `json:"leading"`
	ExpiresAt *int64 `json:"expires_at,omitempty"`
	Expired   bool   `json:"expired"`
}

// Organization returns the singleton organization or ErrNotInitialized.
func (l *Ledger) Organization(ctx context.Context) (*dao.Organization, error) {
	var org *dao.Organization
	err := l.view(ctx, func(tx store.Txn) error {
		var err error
		org, err = loadOrganization(tx, l.orgAddr)
		return err
	})
	return org, err
}

func (l *Ledger) Proposal(ctx context.Context, id uint64) (*dao.Proposal, error) {
	var prpsl *dao.Proposal
	err := l.view(ctx, func(tx store.Txn) error {
		var err error
		prpsl, _, err = loadProposal(tx, l.programID, id)
		return err
	})
	return prpsl, err
}

// Proposals lists up to limit proposals starting at id offset, in id order.
// A zero limit means MaxPageSize.
func (l *Ledger) Proposals(ctx context.Context, offset, limit uint64) ([]*dao.Proposal, error) {
	if limit == 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	var out []*dao.Proposal
	err := l.view(ctx, func(tx store.Txn) error {
		org, err := loadOrganization(tx, l.orgAddr)
		if err != nil {
			return err
		}
		out = make([]*dao.Proposal, 0, min(limit, org.ProposalCount))
		for id := offset; id < org.ProposalCount && uint64(len(out)) < limit; id++ {
			prpsl, _, err := loadProposal(tx, l.programID, id)
			if err != nil {
				return err
			}
			out = append(out, prpsl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Ballot returns voter's ballot on proposal id, or ErrNotFound if they have not voted.
func (l *Ledger) Ballot(ctx context.Context, id uint64, voter sdk.Address) (*dao.Ballot, error) {
	var ballot *dao.Ballot
	err := l.view(ctx, func(tx store.Txn) error {
		_, proposalAddr, err := loadProposal(tx, l.programID, id)
		if err != nil {
			return err
		}
		ballotAddr, _, err := BallotAddress(l.programID, proposalAddr, voter)
		if err != nil {
			return err
		}
		ballot, err = loadBallot(tx, ballotAddr)
		if err != nil {
			return err
		}
		if ballot == nil {
			return fmt.Errorf("%w: no ballot by %s on proposal %d", ErrNotFound, voter, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ballot, nil
}

// VoterBallots is the voting history of voter across all proposals, oldest proposal first.
func (l *Ledger) VoterBallots(ctx context.Context, voter sdk.Address) ([]*dao.Ballot, error) {
	if !voter.IsValid() {
		return nil, validationErr("invalid voter %q", voter)
	}
	var out []*dao.Ballot
	err := l.view(ctx, func(tx store.Txn) error {
		org, err := loadOrganization(tx, l.orgAddr)
		if err != nil {
			return err
		}
		for id := uint64(0); id < org.ProposalCount; id++ {
			proposalAddr, _, err := ProposalAddress(l.programID, id)
			if err != nil {
				return err
			}
			ballotAddr, _, err := BallotAddress(l.programID, proposalAddr, voter)
			if err != nil {
				return err
			}
			ballot, err := loadBallot(tx, ballotAddr)
			if err != nil {
				return err
			}
			if ballot != nil {
				out = append(out, ballot)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Results computes the current tally of proposal id as seen at the ledger clock.
func (l *Ledger) Results(ctx context.Context, id uint64) (*Results, error) {
	prpsl, err := l.Proposal(ctx, id)
	if err != nil {
		return nil, err
	}
	total, err := totalVotes(prpsl)
	if err != nil {
		return nil, err
	}
	res := &Results{
		ProposalID:   prpsl.ID,
		Status:       prpsl.Status,
		YesVotes:     prpsl.YesVotes,
		NoVotes:      prpsl.NoVotes,
		AbstainVotes: prpsl.AbstainVotes,
		TotalVotes:   total,
		Passed:       prpsl.YesVotes > prpsl.NoVotes,
		ExpiresAt:    prpsl.ExpiresAt,
		Expired:      prpsl.IsExpired(l.clock.Now().Unix()),
	}
	switch {
	case prpsl.YesVotes > prpsl.NoVotes:
		res.Leading = "yes"
	case prpsl.NoVotes > prpsl.YesVotes:
		res.Leading = "no"
	default:
		res.Leading = "tie"
	}
	return res, nil
}
