package contract

// -----------------------------------------------------------------------------
// Program
// -----------------------------------------------------------------------------

// DefaultProgramID is the program id record addresses are derived under
// unless the deployment configures another one.
const DefaultProgramID = "5RzYB945gtiaM3k2WjiuhptSNQ8M3VmXQbBmJsSTCwC5"

// -----------------------------------------------------------------------------
// Validation Limits
// -----------------------------------------------------------------------------

const (
	// MaxNameLength limits the organization name, in bytes.
	MaxNameLength = 50
	// MaxTitleLength limits proposal titles, in bytes.
	MaxTitleLength = 100
	// MaxDescriptionLength limits proposal descriptions, in bytes.
	MaxDescriptionLength = 500
	// MaxPageSize caps how many proposals one listing returns.
	MaxPageSize = 100
)

// -----------------------------------------------------------------------------
// Address Seeds
// -----------------------------------------------------------------------------

const (
	seedOrganization = "dao-state"
	seedProposal     = "proposal"
	seedVote         = "vote"
)

// -----------------------------------------------------------------------------
// Storage Key Prefixes
// -----------------------------------------------------------------------------

const (
	// kOrganization holds the encoded singleton Organization.
	kOrganization byte = 0x01
	// kProposal holds encoded Proposal records.
	kProposal byte = 0x10
	// kBallot holds encoded Ballot records.
	kBallot byte = 0x20
	// kTransaction marks applied transaction ids, keyed by their blake3 hash.
	kTransaction byte = 0x30
)

// -----------------------------------------------------------------------------
// Actions
// -----------------------------------------------------------------------------

const (
	ActionInitialize       = "initialize"
	ActionCreateProposal   = "create_proposal"
	ActionCastVote         = "cast_vote"
	ActionFinalizeProposal = "finalize_proposal"
)
