package dao

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding, so the same record always
// produces the same bytes regardless of which node wrote it.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("dao: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("dao: CBOR decoder initialization failed: " + err.Error())
	}
}

func EncodeOrganization(org *Organization) ([]byte, error) {
	return encode("organization", org)
}

func DecodeOrganization(data []byte) (*Organization, error) {
	var org Organization
	if err := decode("organization", data, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func EncodeProposal(prpsl *Proposal) ([]byte, error) {
	return encode("proposal", prpsl)
}

func DecodeProposal(data []byte) (*Proposal, error) {
	var prpsl Proposal
	if err := decode("proposal", data, &prpsl); err != nil {
		return nil, err
	}
	return &prpsl, nil
}

func EncodeBallot(ballot *Ballot) ([]byte, error) {
	return encode("ballot", ballot)
}

func DecodeBallot(data []byte) (*Ballot, error) {
	var ballot Ballot
	if err := decode("ballot", data, &ballot); err != nil {
		return nil, err
	}
	return &ballot, nil
}

func encode(kind string, v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", kind, err)
	}
	return data, nil
}

func decode(kind string, data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("decoding %s: empty record", kind)
	}
	if err := decMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", kind, err)
	}
	return nil
}
