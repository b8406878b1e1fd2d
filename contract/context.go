package contract

import (
	"errors"
	"fmt"

	"okinoko_ledger/events"
	"okinoko_ledger/sdk"
	"okinoko_ledger/store"
)

// txn is the store transaction plus what one operation needs from its
// environment: the sender, a single timestamp, and the events it produced.
type txn struct {
	store.Txn
	env    *sdk.Env
	now    int64
	events []events.Event
}

// sender returns the normalized address of the transaction sender.
func (t *txn) sender() sdk.Address {
	return t.env.Sender.Address.Normalize()
}

func (t *txn) emit(event events.Event) {
	event.TxID = t.env.TxID
	t.events = append(t.events, event)
}

// requireSigner checks the sender is a valid identity that signed the transaction.
func requireSigner(env *sdk.Env) error {
	if env == nil {
		return fmt.Errorf("%w: missing transaction environment", ErrUnauthorized)
	}
	if env.TxID == "" {
		return fmt.Errorf("%w: missing transaction id", ErrValidation)
	}
	if !env.Sender.Address.IsValid() {
		return fmt.Errorf("%w: invalid sender %q", ErrUnauthorized, env.Sender.Address)
	}
	if !env.IsSignedBy(env.Sender.Address) {
		return fmt.Errorf("%w: sender %s did not sign the transaction", ErrUnauthorized, env.Sender.Address)
	}
	return nil
}

// markApplied records the transaction id so the same transaction cannot
// commit twice. It rolls back with everything else when the operation fails.
func (t *txn) markApplied(action string) error {
	err := t.Create(transactionKey(t.env.TxID), []byte(action))
	if errors.Is(err, store.ErrAlreadyExists) {
		return fmt.Errorf("%w: transaction %s already applied", ErrDuplicateRecord, t.env.TxID)
	}
	return err
}

// requireAuthority checks caller is exactly the organization authority.
func requireAuthority(caller, authority sdk.Address) error {
	if caller.Normalize() != authority.Normalize() {
		return fmt.Errorf("%w: %s is not the organization authority", ErrUnauthorized, caller)
	}
	return nil
}
