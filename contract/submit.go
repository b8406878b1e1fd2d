package contract

import (
	"context"
	"fmt"

	"okinoko_ledger/sdk"
)

// Submit decodes payload for action and applies it. It is the single entry
// point for signed transactions arriving over the wire.
func (l *Ledger) Submit(ctx context.Context, env *sdk.Env, action string, payload []byte) (any, error) {
	switch action {
	case ActionInitialize:
		var args InitializeArgs
		if err := decodeArgs(action, payload, &args); err != nil {
			return nil, err
		}
		return l.Initialize(ctx, env, args)
	case ActionCreateProposal:
		var args CreateProposalArgs
		if err := decodeArgs(action, payload, &args); err != nil {
			return nil, err
		}
		return l.CreateProposal(ctx, env, args)
	case ActionCastVote:
		var args CastVoteArgs
		if err := decodeArgs(action, payload, &args); err != nil {
			return nil, err
		}
		return l.CastVote(ctx, env, args)
	case ActionFinalizeProposal:
		var args FinalizeProposalArgs
		if err := decodeArgs(action, payload, &args); err != nil {
			return nil, err
		}
		return l.FinalizeProposal(ctx, env, args)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}
}
