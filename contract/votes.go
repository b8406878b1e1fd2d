package contract

import (
	"context"
	"fmt"

	"okinoko_ledger/contract/dao"
	"okinoko_ledger/sdk"
)

// CastVote records the caller's ballot and bumps the matching tally in one
// transaction. The ballot lives at an address derived from the proposal and
// the voter, so a second vote collides with the first and fails with
// ErrDuplicateRecord. Votes cannot be changed or retracted.
func (l *Ledger) CastVote(ctx context.Context, env *sdk.Env, args CastVoteArgs) (*dao.Ballot, error) {
	var cast *dao.Ballot
	err := l.execute(ctx, env, ActionCastVote, func(tx *txn) error {
		if !args.Choice.Valid() {
			return validationErr("vote choice must be yes, no or abstain")
		}
		prpsl, proposalAddr, err := loadProposal(tx, l.programID, args.ProposalID)
		if err != nil {
			return err
		}
		if prpsl.Status != dao.ProposalActive {
			return ErrProposalNotActive
		}
		if prpsl.IsExpired(tx.now) {
			return fmt.Errorf("%w: proposal %d closed at %d", ErrExpired, prpsl.ID, *prpsl.ExpiresAt)
		}

		voter := tx.sender()
		ballotAddr, bump, err := BallotAddress(l.programID, proposalAddr, voter)
		if err != nil {
			return err
		}
		if err := tally(prpsl, args.Choice); err != nil {
			return err
		}
		if err := saveProposal(tx, proposalAddr, prpsl); err != nil {
			return err
		}
		ballot := &dao.Ballot{
			Voter:      voter,
			ProposalID: prpsl.ID,
			Choice:     args.Choice,
			Timestamp:  tx.now,
			Bump:       bump,
		}
		if err := createBallot(tx, ballotAddr, ballot); err != nil {
			return err
		}
		tx.emit(voteCastEvent(ballot))
		cast = ballot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cast, nil
}

// tally increments exactly one counter of prpsl according to choice.
func tally(prpsl *dao.Proposal, choice dao.VoteChoice) error {
	var err error
	switch choice {
	case dao.VoteYes:
		prpsl.YesVotes, err = checkedAdd(prpsl.YesVotes, 1, "yes votes")
	case dao.VoteNo:
		prpsl.NoVotes, err = checkedAdd(prpsl.NoVotes, 1, "no votes")
	case dao.VoteAbstain:
		prpsl.AbstainVotes, err = checkedAdd(prpsl.AbstainVotes, 1, "abstain votes")
	default:
		err = validationErr("unknown vote choice %d", uint8(choice))
	}
	return err
}
