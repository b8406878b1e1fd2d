package contract_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_ledger/contract"
	"okinoko_ledger/contract/dao"
	"okinoko_ledger/events"
	"okinoko_ledger/sdk"
	"okinoko_ledger/store"
)

var genesis = time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)

type fixture struct {
	ledger   *contract.Ledger
	clock    *sdk.FakeClock
	recorder *events.Recorder
	store    store.Store
}

func newFixture(t *testing.T, opts ...contract.Option) *fixture {
	t.Helper()
	f := &fixture{
		clock:    sdk.NewFakeClock(genesis),
		recorder: events.NewRecorder(),
		store:    store.NewMemoryStore(),
	}
	base := []contract.Option{contract.WithClock(f.clock), contract.WithSink(f.recorder)}
	l, err := contract.New(f.store, append(base, opts...)...)
	require.NoError(t, err)
	f.ledger = l
	return f
}

// identity returns a deterministic base58 identity.
func identity(n byte) sdk.Address {
	return sdk.Pubkey{n, 0xaa, n}.Address()
}

var (
	authority = identity(1)
	voterA    = identity(2)
	voterB    = identity(3)
	voterC    = identity(4)
)

func env(sender sdk.Address) *sdk.Env {
	return sdk.NewEnv(uuid.NewString(), sender)
}

func duration(seconds int64) *int64 { return &seconds }

func (f *fixture) initialize(t *testing.T) {
	t.Helper()
	_, err := f.ledger.Initialize(context.Background(), env(authority), contract.InitializeArgs{Name: "TestDAO"})
	require.NoError(t, err)
}

func (f *fixture) propose(t *testing.T, dur *int64) *dao.Proposal {
	t.Helper()
	prpsl, err := f.ledger.CreateProposal(context.Background(), env(voterA), contract.CreateProposalArgs{
		Title:          "Upgrade",
		Description:    "move the program to v2",
		VotingDuration: dur,
	})
	require.NoError(t, err)
	return prpsl
}

func (f *fixture) vote(voter sdk.Address, id uint64, choice dao.VoteChoice) error {
	_, err := f.ledger.CastVote(context.Background(), env(voter), contract.CastVoteArgs{ProposalID: id, Choice: choice})
	return err
}

func (f *fixture) finalize(caller sdk.Address, id uint64) (*contract.FinalizeResult, error) {
	return f.ledger.FinalizeProposal(context.Background(), env(caller), contract.FinalizeProposalArgs{ProposalID: id})
}

// =============================================================================
// Scenario
// =============================================================================

func TestGovernanceScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	org, err := f.ledger.Initialize(ctx, env(authority), contract.InitializeArgs{Name: "TestDAO"})
	require.NoError(t, err)
	assert.Equal(t, authority, org.Authority)
	assert.Equal(t, uint64(0), org.ProposalCount)

	prpsl := f.propose(t, duration(3600))
	assert.Equal(t, uint64(0), prpsl.ID)
	assert.Equal(t, dao.ProposalActive, prpsl.Status)
	require.NotNil(t, prpsl.ExpiresAt)
	assert.Equal(t, prpsl.CreatedAt+3600, *prpsl.ExpiresAt)
	assert.Equal(t, genesis.Unix(), prpsl.CreatedAt)

	require.NoError(t, f.vote(voterA, 0, dao.VoteYes))
	require.NoError(t, f.vote(voterB, 0, dao.VoteNo))
	require.NoError(t, f.vote(voterC, 0, dao.VoteYes))

	stored, err := f.ledger.Proposal(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, [3]uint64{2, 1, 0}, [3]uint64{stored.YesVotes, stored.NoVotes, stored.AbstainVotes})

	res, err := f.finalize(authority, 0)
	require.NoError(t, err)
	assert.Equal(t, dao.ProposalFinalized, res.Proposal.Status)
	assert.Equal(t, uint64(3), res.TotalVotes)
	assert.True(t, res.Passed)

	err = f.vote(voterA, 0, dao.VoteNo)
	assert.ErrorIs(t, err, contract.ErrInvalidState)
	assert.ErrorIs(t, err, contract.ErrProposalNotActive)

	assert.Equal(t, []string{
		fmt.Sprintf("di|by:%s|n:TestDAO", authority),
		fmt.Sprintf("pc|id:0|by:%s|t:%d", voterA, genesis.Unix()),
		fmt.Sprintf("v|id:0|by:%s|c:yes|t:%d", voterA, genesis.Unix()),
		fmt.Sprintf("v|id:0|by:%s|c:no|t:%d", voterB, genesis.Unix()),
		fmt.Sprintf("v|id:0|by:%s|c:yes|t:%d", voterC, genesis.Unix()),
		"pf|id:0|s:finalized|t:3|p:true",
	}, f.recorder.Lines())
}

// =============================================================================
// Organization
// =============================================================================

func TestInitializeTwiceIsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	_, err := f.ledger.Initialize(context.Background(), env(voterA), contract.InitializeArgs{Name: "Other"})
	assert.ErrorIs(t, err, contract.ErrDuplicateRecord)

	org, err := f.ledger.Organization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, authority, org.Authority)
	assert.Equal(t, "TestDAO", org.Name)
}

func TestInitializeNameBound(t *testing.T) {
	f := newFixture(t, contract.WithOptions(contract.Options{StrictTextLimits: false}))
	_, err := f.ledger.Initialize(context.Background(), env(authority), contract.InitializeArgs{Name: strings.Repeat("n", 51)})
	assert.ErrorIs(t, err, contract.ErrValidation)

	_, err = f.ledger.Initialize(context.Background(), env(authority), contract.InitializeArgs{Name: strings.Repeat("n", 50)})
	assert.NoError(t, err)
}

func TestOperationsBeforeInitialize(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.CreateProposal(context.Background(), env(voterA), contract.CreateProposalArgs{Title: "t"})
	assert.ErrorIs(t, err, contract.ErrNotInitialized)
	_, err = f.ledger.Organization(context.Background())
	assert.ErrorIs(t, err, contract.ErrNotInitialized)
}

func TestUnsignedSenderIsRejected(t *testing.T) {
	f := newFixture(t)
	e := &sdk.Env{TxID: "tx", Sender: sdk.Sender{Address: authority, RequiredAuths: []sdk.Address{voterA}}}
	_, err := f.ledger.Initialize(context.Background(), e, contract.InitializeArgs{Name: "TestDAO"})
	assert.ErrorIs(t, err, contract.ErrUnauthorized)

	_, err = f.ledger.Initialize(context.Background(), env("garbage"), contract.InitializeArgs{Name: "TestDAO"})
	assert.ErrorIs(t, err, contract.ErrUnauthorized)
	assert.Empty(t, f.recorder.Events())
}

// =============================================================================
// Proposals
// =============================================================================

func TestProposalIDsAreDenseAndIncreasing(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	for i := uint64(0); i < 5; i++ {
		prpsl := f.propose(t, nil)
		assert.Equal(t, i, prpsl.ID)
		assert.Nil(t, prpsl.ExpiresAt)
	}
	org, err := f.ledger.Organization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), org.ProposalCount)

	page, err := f.ledger.Proposals(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, uint64(1), page[0].ID)
	assert.Equal(t, uint64(3), page[2].ID)

	tail, err := f.ledger.Proposals(context.Background(), 4, 0)
	require.NoError(t, err)
	assert.Len(t, tail, 1)
}

func TestProposalTextLimits(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	ctx := context.Background()

	_, err := f.ledger.CreateProposal(ctx, env(voterA), contract.CreateProposalArgs{Title: strings.Repeat("t", 101)})
	assert.ErrorIs(t, err, contract.ErrValidation)
	_, err = f.ledger.CreateProposal(ctx, env(voterA), contract.CreateProposalArgs{Title: "ok", Description: strings.Repeat("d", 501)})
	assert.ErrorIs(t, err, contract.ErrValidation)

	prpsl, err := f.ledger.CreateProposal(ctx, env(voterA), contract.CreateProposalArgs{
		Title:       strings.Repeat("t", 100),
		Description: strings.Repeat("d", 500),
	})
	require.NoError(t, err)
	// failed attempts never consumed an id
	assert.Equal(t, uint64(0), prpsl.ID)
}

func TestLooseTextLimits(t *testing.T) {
	f := newFixture(t, contract.WithOptions(contract.Options{StrictTextLimits: false}))
	f.initialize(t)
	prpsl, err := f.ledger.CreateProposal(context.Background(), env(voterA), contract.CreateProposalArgs{
		Title:       strings.Repeat("t", 300),
		Description: strings.Repeat("d", 2000),
	})
	require.NoError(t, err)
	assert.Len(t, prpsl.Title, 300)
}

func TestDefaultVotingWindow(t *testing.T) {
	f := newFixture(t, contract.WithOptions(contract.Options{StrictTextLimits: true, DefaultVotingSeconds: duration(60)}))
	f.initialize(t)
	prpsl := f.propose(t, nil)
	require.NotNil(t, prpsl.ExpiresAt)
	assert.Equal(t, prpsl.CreatedAt+60, *prpsl.ExpiresAt)

	explicit := f.propose(t, duration(10))
	assert.Equal(t, explicit.CreatedAt+10, *explicit.ExpiresAt)
}

func TestNegativeDurationIsAlreadyExpired(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	prpsl := f.propose(t, duration(-5))
	assert.Equal(t, prpsl.CreatedAt-5, *prpsl.ExpiresAt)
	assert.ErrorIs(t, f.vote(voterA, prpsl.ID, dao.VoteYes), contract.ErrExpired)
}

func TestDurationOverflow(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	_, err := f.ledger.CreateProposal(context.Background(), env(voterA), contract.CreateProposalArgs{
		Title:          "overflow",
		VotingDuration: duration(1<<63 - 1),
	})
	assert.ErrorIs(t, err, contract.ErrArithmeticOverflow)
}

// =============================================================================
// Votes
// =============================================================================

func TestOneVotePerIdentity(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.propose(t, nil)
	require.NoError(t, f.vote(voterA, 0, dao.VoteYes))

	err := f.vote(voterA, 0, dao.VoteNo)
	assert.ErrorIs(t, err, contract.ErrDuplicateRecord)

	prpsl, err := f.ledger.Proposal(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), prpsl.YesVotes)
	assert.Equal(t, uint64(0), prpsl.NoVotes)

	ballot, err := f.ledger.Ballot(context.Background(), 0, voterA)
	require.NoError(t, err)
	assert.Equal(t, dao.VoteYes, ballot.Choice)
}

func TestVoteExpiryBoundary(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.propose(t, duration(100))

	f.clock.Advance(100 * time.Second)
	require.NoError(t, f.vote(voterA, 0, dao.VoteYes), "a vote exactly at expiry is admitted")

	f.clock.Advance(time.Second)
	assert.ErrorIs(t, f.vote(voterB, 0, dao.VoteYes), contract.ErrExpired)

	// expiry never finalizes on its own, the authority still can
	prpsl, err := f.ledger.Proposal(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, dao.ProposalActive, prpsl.Status)
	res, err := f.finalize(authority, 0)
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestSignedTimestampCannotReopenVoting(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.propose(t, duration(100))
	f.propose(t, nil)
	f.clock.Advance(time.Hour)

	voter, err := sdk.GenerateEd25519()
	require.NoError(t, err)
	submit := func(id uint64, claimed string) (any, error) {
		payload, err := contract.CastVoteArgs{ProposalID: id, Choice: dao.VoteYes}.MarshalJSON()
		require.NoError(t, err)
		envelope, err := sdk.SignEnvelope(voter, contract.ActionCastVote, payload, claimed)
		require.NoError(t, err)
		e, err := envelope.Verify()
		require.NoError(t, err)
		return f.ledger.Submit(context.Background(), e, envelope.Action, []byte(envelope.Payload))
	}

	for _, claimed := range []string{"0", fmt.Sprint(genesis.Unix()), genesis.Format(time.RFC3339)} {
		_, err := submit(0, claimed)
		assert.ErrorIs(t, err, contract.ErrExpired, "claimed %q", claimed)
	}

	result, err := submit(1, "0")
	require.NoError(t, err)
	ballot, ok := result.(*dao.Ballot)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, f.clock.Now().Unix(), ballot.Timestamp)
}

func TestReplayedTransactionIsRejected(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	ctx := context.Background()

	e := env(voterA)
	args := contract.CreateProposalArgs{Title: "Once", Description: "applied a single time"}
	_, err := f.ledger.CreateProposal(ctx, e, args)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = f.ledger.CreateProposal(ctx, e, args)
		assert.ErrorIs(t, err, contract.ErrDuplicateRecord)
	}
	org, err := f.ledger.Organization(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), org.ProposalCount)

	// the id is spent across actions too
	_, err = f.ledger.CastVote(ctx, e, contract.CastVoteArgs{ProposalID: 0, Choice: dao.VoteYes})
	assert.ErrorIs(t, err, contract.ErrDuplicateRecord)

	// a rejected transaction rolls back and does not spend its id
	late := env(voterB)
	_, err = f.ledger.CastVote(ctx, late, contract.CastVoteArgs{ProposalID: 7, Choice: dao.VoteYes})
	require.ErrorIs(t, err, contract.ErrNotFound)
	_, err = f.ledger.CastVote(ctx, late, contract.CastVoteArgs{ProposalID: 0, Choice: dao.VoteYes})
	assert.NoError(t, err)

	_, err = f.ledger.CreateProposal(ctx, sdk.NewEnv("", voterA), args)
	assert.ErrorIs(t, err, contract.ErrValidation)
}

func TestVoteOnMissingProposal(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	assert.ErrorIs(t, f.vote(voterA, 42, dao.VoteYes), contract.ErrNotFound)
	assert.ErrorIs(t, f.vote(voterA, 0, dao.VoteChoiceUnspecified), contract.ErrValidation)
}

func TestTallyMatchesBallots(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.propose(t, nil)
	choices := []dao.VoteChoice{dao.VoteYes, dao.VoteNo, dao.VoteAbstain, dao.VoteAbstain, dao.VoteYes, dao.VoteNo, dao.VoteNo}
	want := map[dao.VoteChoice]uint64{}
	for i, choice := range choices {
		require.NoError(t, f.vote(identity(byte(10+i)), 0, choice))
		want[choice]++
	}
	prpsl, err := f.ledger.Proposal(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, want[dao.VoteYes], prpsl.YesVotes)
	assert.Equal(t, want[dao.VoteNo], prpsl.NoVotes)
	assert.Equal(t, want[dao.VoteAbstain], prpsl.AbstainVotes)
	assert.Equal(t, uint64(len(choices)), prpsl.YesVotes+prpsl.NoVotes+prpsl.AbstainVotes)

	res, err := f.ledger.Results(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "no", res.Leading)
	assert.False(t, res.Passed)
	assert.Equal(t, uint64(7), res.TotalVotes)
}

func TestVoterBallotsHistory(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.propose(t, nil)
	f.propose(t, nil)
	f.propose(t, nil)
	require.NoError(t, f.vote(voterB, 0, dao.VoteYes))
	require.NoError(t, f.vote(voterB, 2, dao.VoteAbstain))

	history, err := f.ledger.VoterBallots(context.Background(), voterB)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, uint64(0), history[0].ProposalID)
	assert.Equal(t, uint64(2), history[1].ProposalID)
	assert.Equal(t, dao.VoteAbstain, history[1].Choice)

	_, err = f.ledger.Ballot(context.Background(), 1, voterB)
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

func TestConcurrentDoubleVoteHasOneWinner(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.propose(t, nil)

	const racers = 10
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.vote(voterA, 0, dao.VoteYes)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, contract.ErrDuplicateRecord)
	}
	assert.Equal(t, 1, wins)
	prpsl, err := f.ledger.Proposal(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), prpsl.YesVotes)
}

func TestConcurrentCreateProposalIDsAreUnique(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	const racers = 12
	ids := make(chan uint64, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prpsl, err := f.ledger.CreateProposal(context.Background(), env(identity(byte(40+i))), contract.CreateProposalArgs{Title: "race"})
			if assert.NoError(t, err) {
				ids <- prpsl.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)
	seen := map[uint64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, racers)
	for i := uint64(0); i < racers; i++ {
		assert.True(t, seen[i])
	}
}

// =============================================================================
// Finalize
// =============================================================================

func TestFinalizeRequiresAuthority(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.propose(t, nil)
	_, err := f.finalize(voterA, 0)
	assert.ErrorIs(t, err, contract.ErrUnauthorized)

	prpsl, err := f.ledger.Proposal(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, dao.ProposalActive, prpsl.Status)
}

func TestFinalizeIsTerminal(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.propose(t, nil)
	_, err := f.finalize(authority, 0)
	require.NoError(t, err)

	_, err = f.finalize(authority, 0)
	assert.ErrorIs(t, err, contract.ErrProposalNotActive)
	// status is checked before the caller
	_, err = f.finalize(voterA, 0)
	assert.ErrorIs(t, err, contract.ErrProposalNotActive)
}

func TestTieDoesNotPass(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.propose(t, nil)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.vote(identity(byte(20+i)), 0, dao.VoteYes))
		require.NoError(t, f.vote(identity(byte(30+i)), 0, dao.VoteNo))
	}
	require.NoError(t, f.vote(identity(99), 0, dao.VoteAbstain))
	res, err := f.finalize(authority, 0)
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Equal(t, uint64(7), res.TotalVotes)
}

func TestFinalizeEarlyBeforeExpiry(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.propose(t, duration(3600))
	require.NoError(t, f.vote(voterA, 0, dao.VoteNo))
	res, err := f.finalize(authority, 0)
	require.NoError(t, err)
	assert.False(t, res.Passed)
}

// =============================================================================
// Submission
// =============================================================================

func TestSubmitDispatchesActions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Submit(ctx, env(authority), contract.ActionInitialize, []byte(`{"name":"TestDAO"}`))
	require.NoError(t, err)
	out, err := f.ledger.Submit(ctx, env(voterA), contract.ActionCreateProposal, []byte(`{"title":"t","description":"d","voting_duration":60}`))
	require.NoError(t, err)
	prpsl := out.(*dao.Proposal)
	assert.Equal(t, prpsl.CreatedAt+60, *prpsl.ExpiresAt)

	_, err = f.ledger.Submit(ctx, env(voterB), contract.ActionCastVote, []byte(`{"proposal_id":0,"choice":"abstain"}`))
	require.NoError(t, err)
	out, err = f.ledger.Submit(ctx, env(authority), contract.ActionFinalizeProposal, []byte(`{"proposal_id":0}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), out.(*contract.FinalizeResult).TotalVotes)

	_, err = f.ledger.Submit(ctx, env(voterB), contract.ActionCastVote, []byte(`{"proposal_id":0,"choice":"maybe"}`))
	assert.ErrorIs(t, err, contract.ErrValidation)
	_, err = f.ledger.Submit(ctx, env(voterB), "delete_everything", []byte(`{}`))
	assert.ErrorIs(t, err, contract.ErrValidation)
	_, err = f.ledger.Submit(ctx, env(voterB), contract.ActionCastVote, nil)
	assert.ErrorIs(t, err, contract.ErrValidation)
}

func TestArgsJSONRoundTrip(t *testing.T) {
	data, err := contract.CastVoteArgs{ProposalID: 3, Choice: dao.VoteNo}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"proposal_id":3,"choice":"no"}`, string(data))

	data, err = contract.CreateProposalArgs{Title: "t"}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"t","description":""}`, string(data))
}

// =============================================================================
// Store backends
// =============================================================================

func TestScenarioOnDurableStores(t *testing.T) {
	badgerStore, err := store.OpenBadger("", nil)
	require.NoError(t, err)
	sqliteStore, err := store.OpenSQLite(t.TempDir()+"/ledger.db", 4, nil)
	require.NoError(t, err)
	for name, st := range map[string]store.Store{"badger": badgerStore, "sqlite": sqliteStore} {
		t.Run(name, func(t *testing.T) {
			defer st.Close()
			l, err := contract.New(st, contract.WithClock(sdk.NewFakeClock(genesis)))
			require.NoError(t, err)
			ctx := context.Background()
			_, err = l.Initialize(ctx, env(authority), contract.InitializeArgs{Name: "TestDAO"})
			require.NoError(t, err)
			_, err = l.CreateProposal(ctx, env(voterA), contract.CreateProposalArgs{Title: "Upgrade"})
			require.NoError(t, err)

			var wg sync.WaitGroup
			errs := make([]error, 6)
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = l.CastVote(ctx, env(voterB), contract.CastVoteArgs{ProposalID: 0, Choice: dao.VoteYes})
				}(i)
			}
			wg.Wait()
			wins := 0
			for _, err := range errs {
				if err == nil {
					wins++
				} else {
					assert.ErrorIs(t, err, contract.ErrDuplicateRecord)
				}
			}
			assert.Equal(t, 1, wins)

			// distinct voters all contend on the proposal tally
			const voters = 150
			errs = make([]error, voters)
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					voter := sdk.Pubkey{0xbb, byte(i), byte(i >> 8)}.Address()
					_, errs[i] = l.CastVote(ctx, env(voter), contract.CastVoteArgs{ProposalID: 0, Choice: dao.VoteNo})
				}(i)
			}
			// and proposal creation contends on the organization counter
			const creators = 25
			ids := make([]uint64, creators)
			createErrs := make([]error, creators)
			for i := range ids {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					prpsl, err := l.CreateProposal(ctx, env(identity(byte(60+i))), contract.CreateProposalArgs{Title: fmt.Sprintf("p%d", i)})
					createErrs[i] = err
					if err == nil {
						ids[i] = prpsl.ID
					}
				}(i)
			}
			wg.Wait()
			for i, err := range errs {
				require.NoError(t, err, "voter %d", i)
			}
			seen := map[uint64]bool{}
			for i, err := range createErrs {
				require.NoError(t, err, "creator %d", i)
				assert.False(t, seen[ids[i]], "id %d issued twice", ids[i])
				seen[ids[i]] = true
			}
			for id := uint64(1); id <= creators; id++ {
				assert.True(t, seen[id], "id %d missing", id)
			}
			org, err := l.Organization(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint64(creators+1), org.ProposalCount)

			res, err := l.FinalizeProposal(ctx, env(authority), contract.FinalizeProposalArgs{ProposalID: 0})
			require.NoError(t, err)
			assert.False(t, res.Passed)
			assert.Equal(t, uint64(1), res.Proposal.YesVotes)
			assert.Equal(t, uint64(voters), res.Proposal.NoVotes)
			assert.Equal(t, uint64(voters+1), res.TotalVotes)
		})
	}
}
