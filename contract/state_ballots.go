package contract

import (
	"errors"
	"fmt"

	"okinoko_ledger/contract/dao"
	"okinoko_ledger/sdk"
	"okinoko_ledger/store"
)

// loadBallot returns the ballot at addr, or nil when the voter has not voted.
func loadBallot(tx store.Txn, addr sdk.Pubkey) (*dao.Ballot, error) {
	data, err := tx.Get(recordKey(kBallot, addr))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading ballot %s: %w", addr, err)
	}
	return dao.DecodeBallot(data)
}

func createBallot(tx store.Txn, addr sdk.Pubkey, ballot *dao.Ballot) error {
	data, err := dao.EncodeBallot(ballot)
	if err != nil {
		return err
	}
	return createRecord(tx, kBallot, addr, data)
}
