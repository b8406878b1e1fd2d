package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"okinoko_ledger/contract"
	"okinoko_ledger/sdk"
)

type queries struct{ ledger *contract.Ledger }

func (q queries) Organization(c *gin.Context) {
	org, err := q.ledger.Organization(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (q queries) Proposals(c *gin.Context) {
	offset, err := uintQuery(c, "offset")
	if err != nil {
		abortWithError(c, err)
		return
	}
	limit, err := uintQuery(c, "limit")
	if err != nil {
		abortWithError(c, err)
		return
	}
	list, err := q.ledger.Proposals(c.Request.Context(), offset, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": list, "offset": offset})
}

func (q queries) Proposal(c *gin.Context) {
	id, ok := proposalID(c)
	if !ok {
		return
	}
	prpsl, err := q.ledger.Proposal(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, prpsl)
}

func (q queries) Results(c *gin.Context) {
	id, ok := proposalID(c)
	if !ok {
		return
	}
	res, err := q.ledger.Results(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (q queries) Ballot(c *gin.Context) {
	id, ok := proposalID(c)
	if !ok {
		return
	}
	voter, ok := voterParam(c)
	if !ok {
		return
	}
	ballot, err := q.ledger.Ballot(c.Request.Context(), id, voter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ballot)
}

func (q queries) VoterBallots(c *gin.Context) {
	voter, ok := voterParam(c)
	if !ok {
		return
	}
	ballots, err := q.ledger.VoterBallots(c.Request.Context(), voter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"voter": voter, "ballots": ballots})
}

func proposalID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"err": "bad proposal id"})
		return 0, false
	}
	return id, true
}

func voterParam(c *gin.Context) (sdk.Address, bool) {
	voter, err := sdk.ParseAddress(c.Param("voter"))
	if err != nil {
		abortWithError(c, err)
		return "", false
	}
	return voter, true
}

func uintQuery(c *gin.Context, name string) (uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q", contract.ErrValidation, name, raw)
	}
	return v, nil
}
