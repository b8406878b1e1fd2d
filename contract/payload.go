package contract

import (
	"fmt"
	"strings"

	"okinoko_ledger/contract/dao"
)

// InitializeArgs is the payload of the initialize action.
//
//tinyjson:json
type InitializeArgs struct {
	Name string `json:"name"`
}

// CreateProposalArgs is the payload of the create_proposal action.
// VotingDuration is in seconds; nil falls back to the ledger default.
//
//tinyjson:json
type CreateProposalArgs struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	VotingDuration *int64 `json:"voting_duration,omitempty"`
}

//tinyjson:json
type CastVoteArgs struct {
	ProposalID uint64         `json:"proposal_id"`
	Choice     dao.VoteChoice `json:"choice"`
}

//tinyjson:json
type FinalizeProposalArgs struct {
	ProposalID uint64 `json:"proposal_id"`
}

// decodeArgs unpacks a json payload into one of the args structs above.
func decodeArgs(action string, payload []byte, into interface{ UnmarshalJSON([]byte) error }) error {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return validationErr("%s payload missing", action)
	}
	if err := into.UnmarshalJSON(payload); err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrValidation, action, err)
	}
	return nil
}
