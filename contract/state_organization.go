package contract

import (
	"errors"
	"fmt"

	"okinoko_ledger/contract/dao"
	"okinoko_ledger/sdk"
	"okinoko_ledger/store"
)

func loadOrganization(tx store.Txn, addr sdk.Pubkey) (*dao.Organization, error) {
	data, err := tx.Get(recordKey(kOrganization, addr))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("loading organization: %w", err)
	}
	return dao.DecodeOrganization(data)
}

func createOrganization(tx store.Txn, addr sdk.Pubkey, org *dao.Organization) error {
	data, err := dao.EncodeOrganization(org)
	if err != nil {
		return err
	}
	return createRecord(tx, kOrganization, addr, data)
}

func saveOrganization(tx store.Txn, addr sdk.Pubkey, org *dao.Organization) error {
	data, err := dao.EncodeOrganization(org)
	if err != nil {
		return err
	}
	return tx.Put(recordKey(kOrganization, addr), data)
}

// createRecord stores data at a fresh address. An occupied address means the
// record already exists, which callers see as ErrDuplicateRecord.
func createRecord(tx store.Txn, prefix byte, addr sdk.Pubkey, data []byte) error {
	err := tx.Create(recordKey(prefix, addr), data)
	if errors.Is(err, store.ErrAlreadyExists) {
		return fmt.Errorf("%w: address collision at %s", ErrDuplicateRecord, addr)
	}
	return err
}
