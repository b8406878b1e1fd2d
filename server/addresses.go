package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"okinoko_ledger/contract"
	"okinoko_ledger/sdk"
)

// addresses recomputes record addresses so clients can look records up
// without a lookup table.
type addresses struct{ ledger *contract.Ledger }

type addressResponse struct {
	Address sdk.Pubkey `json:"address"`
	Bump    uint8      `json:"bump"`
}

func (a addresses) Organization(c *gin.Context) {
	addr, bump, err := contract.OrganizationAddress(a.ledger.ProgramID())
	respondAddress(c, addr, bump, err)
}

func (a addresses) Proposal(c *gin.Context) {
	id, ok := proposalID(c)
	if !ok {
		return
	}
	addr, bump, err := contract.ProposalAddress(a.ledger.ProgramID(), id)
	respondAddress(c, addr, bump, err)
}

func (a addresses) Ballot(c *gin.Context) {
	id, ok := proposalID(c)
	if !ok {
		return
	}
	voter, ok := voterParam(c)
	if !ok {
		return
	}
	proposal, _, err := contract.ProposalAddress(a.ledger.ProgramID(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	addr, bump, err := contract.BallotAddress(a.ledger.ProgramID(), proposal, voter)
	respondAddress(c, addr, bump, err)
}

func respondAddress(c *gin.Context, addr sdk.Pubkey, bump uint8, err error) {
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, addressResponse{Address: addr, Bump: bump})
}
