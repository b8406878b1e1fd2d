package contract

import (
	"context"

	"okinoko_ledger/contract/dao"
	"okinoko_ledger/sdk"
)

// Initialize creates the organization with the caller as its authority.
// A second call fails with ErrDuplicateRecord.
func (l *Ledger) Initialize(ctx context.Context, env *sdk.Env, args InitializeArgs) (*dao.Organization, error) {
	var org *dao.Organization
	err := l.execute(ctx, env, ActionInitialize, func(tx *txn) error {
		if len(args.Name) > MaxNameLength {
			return validationErr("dao name must be %d characters or less", MaxNameLength)
		}
		created := &dao.Organization{
			Authority:     tx.sender(),
			Name:          args.Name,
			ProposalCount: 0,
			Bump:          l.orgBump,
		}
		if err := createOrganization(tx, l.orgAddr, created); err != nil {
			return err
		}
		tx.emit(organizationInitializedEvent(created))
		org = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}
