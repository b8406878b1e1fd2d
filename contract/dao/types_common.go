package dao

import (
	"fmt"
	"strings"

	"okinoko_ledger/sdk"
)

// ProposalStatus captures a proposal's lifecycle. Active is the only state
// that accepts votes; Finalized is terminal.
type ProposalStatus uint8

const (
	ProposalStatusUnspecified ProposalStatus = 0
	ProposalActive            ProposalStatus = 1
	ProposalFinalized         ProposalStatus = 2
)

// String prints the status as lower-case text for events and logs.
func (ps ProposalStatus) String() string {
	switch ps {
	case ProposalActive:
		return "active"
	case ProposalFinalized:
		return "finalized"
	default:
		return "unspecified"
	}
}

func (ps ProposalStatus) MarshalText() ([]byte, error) {
	return []byte(ps.String()), nil
}

func (ps *ProposalStatus) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "active":
		*ps = ProposalActive
	case "finalized":
		*ps = ProposalFinalized
	case "unspecified", "":
		*ps = ProposalStatusUnspecified
	default:
		return fmt.Errorf("unknown proposal status %q", text)
	}
	return nil
}

// VoteChoice is the three-way ballot option.
type VoteChoice uint8

const (
	VoteChoiceUnspecified VoteChoice = 0
	VoteYes               VoteChoice = 1
	VoteNo                VoteChoice = 2
	VoteAbstain           VoteChoice = 3
)

func (vc VoteChoice) String() string {
	switch vc {
	case VoteYes:
		return "yes"
	case VoteNo:
		return "no"
	case VoteAbstain:
		return "abstain"
	default:
		return "unspecified"
	}
}

// Valid reports whether vc is one of yes, no or abstain.
func (vc VoteChoice) Valid() bool {
	return vc == VoteYes || vc == VoteNo || vc == VoteAbstain
}

// ParseVoteChoice accepts yes/no/abstain in any case, plus y/n/a.
func ParseVoteChoice(s string) (VoteChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return VoteYes, nil
	case "no", "n":
		return VoteNo, nil
	case "abstain", "a":
		return VoteAbstain, nil
	default:
		return VoteChoiceUnspecified, fmt.Errorf("unknown vote choice %q", s)
	}
}

func (vc VoteChoice) MarshalText() ([]byte, error) {
	if !vc.Valid() {
		return nil, fmt.Errorf("cannot encode vote choice %d", uint8(vc))
	}
	return []byte(vc.String()), nil
}

func (vc *VoteChoice) UnmarshalText(text []byte) error {
	parsed, err := ParseVoteChoice(string(text))
	if err != nil {
		return err
	}
	*vc = parsed
	return nil
}

// Organization is the singleton configuration record.
type Organization struct {
	Authority     sdk.Address `cbor:"1,keyasint" json:"authority"`
	Name          string      `cbor:"2,keyasint" json:"name"`
	ProposalCount uint64      `cbor:"3,keyasint" json:"proposal_count"`
	Bump          uint8       `cbor:"4,keyasint" json:"bump"`
}

type Proposal struct {
	ID           uint64         `cbor:"1,keyasint" json:"id"`
	Creator      sdk.Address    `cbor:"2,keyasint" json:"creator"`
	Title        string         `cbor:"3,keyasint" json:"title"`
	Description  string         `cbor:"4,keyasint" json:"description"`
	YesVotes     uint64         `cbor:"5,keyasint" json:"yes_votes"`
	NoVotes      uint64         `cbor:"6,keyasint" json:"no_votes"`
	AbstainVotes uint64         `cbor:"7,keyasint" json:"abstain_votes"`
	Status       ProposalStatus `cbor:"8,keyasint" json:"status"`
	CreatedAt    int64          `cbor:"9,keyasint" json:"created_at"`
	// ExpiresAt is nil for proposals without a voting window.
	ExpiresAt *int64 `cbor:"10,keyasint,omitempty" json:"expires_at,omitempty"`
	Bump      uint8  `cbor:"11,keyasint" json:"bump"`
}

// IsExpired reports whether a vote at now falls outside the voting window.
// A vote exactly at ExpiresAt is still inside it.
func (p *Proposal) IsExpired(now int64) bool {
	return p.ExpiresAt != nil && now > *p.ExpiresAt
}

// Ballot is one identity's vote on one proposal.
type Ballot struct {
	Voter      sdk.Address `cbor:"1,keyasint" json:"voter"`
	ProposalID uint64      `cbor:"2,keyasint" json:"proposal_id"`
	Choice     VoteChoice  `cbor:"3,keyasint" json:"choice"`
	Timestamp  int64       `cbor:"4,keyasint" json:"timestamp"`
	Bump       uint8       `cbor:"5,keyasint" json:"bump"`
}
