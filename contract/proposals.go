package contract

import (
	"context"

	"okinoko_ledger/contract/dao"
	"okinoko_ledger/sdk"
)

// FinalizeResult is what finalize_proposal reports besides the updated record.
type FinalizeResult struct {
	Proposal   *dao.Proposal `json:"proposal"`
	TotalVotes uint64        `json:"total_votes"`
	Passed     bool          `json:"passed"`
}

// CreateProposal opens a new proposal under the next id. The id is the
// organization's proposal count read in the same transaction that bumps it,
// so ids stay dense and never repeat.
func (l *Ledger) CreateProposal(ctx context.Context, env *sdk.Env, args CreateProposalArgs) (*dao.Proposal, error) {
	var created *dao.Proposal
	err := l.execute(ctx, env, ActionCreateProposal, func(tx *txn) error {
		org, err := loadOrganization(tx, l.orgAddr)
		if err != nil {
			return err
		}
		if err := l.validateProposalText(args.Title, args.Description); err != nil {
			return err
		}

		id := org.ProposalCount
		next, err := checkedAdd(id, 1, "proposal count")
		if err != nil {
			return err
		}
		addr, bump, err := ProposalAddress(l.programID, id)
		if err != nil {
			return err
		}

		prpsl := &dao.Proposal{
			ID:          id,
			Creator:     tx.sender(),
			Title:       args.Title,
			Description: args.Description,
			Status:      dao.ProposalActive,
			CreatedAt:   tx.now,
			Bump:        bump,
		}
		duration := args.VotingDuration
		if duration == nil {
			duration = l.opts.DefaultVotingSeconds
		}
		// negative durations are accepted and leave the proposal already expired
		if duration != nil {
			expiresAt, err := checkedAddInt64(tx.now, *duration, "proposal expiry")
			if err != nil {
				return err
			}
			prpsl.ExpiresAt = &expiresAt
		}

		if err := createProposal(tx, addr, prpsl); err != nil {
			return err
		}
		org.ProposalCount = next
		if err := saveOrganization(tx, l.orgAddr, org); err != nil {
			return err
		}
		tx.emit(proposalCreatedEvent(prpsl))
		created = prpsl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (l *Ledger) validateProposalText(title, description string) error {
	if !l.opts.StrictTextLimits {
		return nil
	}
	if len(title) > MaxTitleLength {
		return validationErr("title must be %d characters or less", MaxTitleLength)
	}
	if len(description) > MaxDescriptionLength {
		return validationErr("description must be %d characters or less", MaxDescriptionLength)
	}
	return nil
}

// FinalizeProposal closes an active proposal and reports whether it passed.
// Only the organization authority may finalize, before or after expiry.
// A tie does not pass; abstentions only count towards the total.
func (l *Ledger) FinalizeProposal(ctx context.Context, env *sdk.Env, args FinalizeProposalArgs) (*FinalizeResult, error) {
	var result *FinalizeResult
	err := l.execute(ctx, env, ActionFinalizeProposal, func(tx *txn) error {
		org, err := loadOrganization(tx, l.orgAddr)
		if err != nil {
			return err
		}
		prpsl, addr, err := loadProposal(tx, l.programID, args.ProposalID)
		if err != nil {
			return err
		}
		if prpsl.Status != dao.ProposalActive {
			return ErrProposalNotActive
		}
		if err := requireAuthority(tx.sender(), org.Authority); err != nil {
			return err
		}

		total, err := totalVotes(prpsl)
		if err != nil {
			return err
		}
		passed := prpsl.YesVotes > prpsl.NoVotes
		prpsl.Status = dao.ProposalFinalized
		if err := saveProposal(tx, addr, prpsl); err != nil {
			return err
		}
		tx.emit(proposalFinalizedEvent(prpsl, total, passed))
		result = &FinalizeResult{Proposal: prpsl, TotalVotes: total, Passed: passed}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func totalVotes(prpsl *dao.Proposal) (uint64, error) {
	sum, err := checkedAdd(prpsl.YesVotes, prpsl.NoVotes, "total votes")
	if err != nil {
		return 0, err
	}
	return checkedAdd(sum, prpsl.AbstainVotes, "total votes")
}
