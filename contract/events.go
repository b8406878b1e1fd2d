package contract

import (
	"fmt"
	"strconv"

	"okinoko_ledger/contract/dao"
	"okinoko_ledger/events"
)

// organizationInitializedEvent is the "di" line: who set the dao up and under which name.
func organizationInitializedEvent(org *dao.Organization) events.Event {
	return events.Event{
		Kind: events.OrganizationInitialized,
		Line: fmt.Sprintf("di|by:%s|n:%s", org.Authority, org.Name),
		Fields: map[string]string{
			"authority": org.Authority.String(),
			"name":      org.Name,
		},
	}
}

// proposalCreatedEvent keeps observers updated with a short pc line for every new proposal.
func proposalCreatedEvent(prpsl *dao.Proposal) events.Event {
	fields := map[string]string{
		"id":         strconv.FormatUint(prpsl.ID, 10),
		"creator":    prpsl.Creator.String(),
		"title":      prpsl.Title,
		"created_at": strconv.FormatInt(prpsl.CreatedAt, 10),
	}
	if prpsl.ExpiresAt != nil {
		fields["expires_at"] = strconv.FormatInt(*prpsl.ExpiresAt, 10)
	}
	return events.Event{
		Kind:   events.ProposalCreated,
		Line:   fmt.Sprintf("pc|id:%d|by:%s|t:%d", prpsl.ID, prpsl.Creator, prpsl.CreatedAt),
		Fields: fields,
	}
}

func voteCastEvent(ballot *dao.Ballot) events.Event {
	return events.Event{
		Kind: events.VoteCast,
		Line: fmt.Sprintf("v|id:%d|by:%s|c:%s|t:%d", ballot.ProposalID, ballot.Voter, ballot.Choice, ballot.Timestamp),
		Fields: map[string]string{
			"proposal_id": strconv.FormatUint(ballot.ProposalID, 10),
			"voter":       ballot.Voter.String(),
			"choice":      ballot.Choice.String(),
			"timestamp":   strconv.FormatInt(ballot.Timestamp, 10),
		},
	}
}

// proposalFinalizedEvent reports the terminal flip together with the outcome.
func proposalFinalizedEvent(prpsl *dao.Proposal, totalVotes uint64, passed bool) events.Event {
	return events.Event{
		Kind: events.ProposalFinalized,
		Line: fmt.Sprintf("pf|id:%d|s:%s|t:%d|p:%t", prpsl.ID, prpsl.Status, totalVotes, passed),
		Fields: map[string]string{
			"id":          strconv.FormatUint(prpsl.ID, 10),
			"status":      prpsl.Status.String(),
			"total_votes": strconv.FormatUint(totalVotes, 10),
			"passed":      strconv.FormatBool(passed),
		},
	}
}
