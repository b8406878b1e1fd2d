package contract

import (
	"errors"
	"fmt"

	"okinoko_ledger/contract/dao"
	"okinoko_ledger/sdk"
	"okinoko_ledger/store"
)

// loadProposal derives the proposal's address and decodes the record stored there.
func loadProposal(tx store.Txn, programID sdk.Pubkey, id uint64) (*dao.Proposal, sdk.Pubkey, error) {
	addr, _, err := ProposalAddress(programID, id)
	if err != nil {
		return nil, addr, fmt.Errorf("deriving proposal %d address: %w", id, err)
	}
	data, err := tx.Get(recordKey(kProposal, addr))
	if errors.Is(err, store.ErrNotFound) {
		return nil, addr, fmt.Errorf("%w: proposal %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, addr, fmt.Errorf("loading proposal %d: %w", id, err)
	}
	prpsl, err := dao.DecodeProposal(data)
	if err != nil {
		return nil, addr, err
	}
	return prpsl, addr, nil
}

func createProposal(tx store.Txn, addr sdk.Pubkey, prpsl *dao.Proposal) error {
	data, err := dao.EncodeProposal(prpsl)
	if err != nil {
		return err
	}
	return createRecord(tx, kProposal, addr, data)
}

func saveProposal(tx store.Txn, addr sdk.Pubkey, prpsl *dao.Proposal) error {
	data, err := dao.EncodeProposal(prpsl)
	if err != nil {
		return err
	}
	return tx.Put(recordKey(kProposal, addr), data)
}
