package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"okinoko_ledger/contract"
	"okinoko_ledger/sdk"
)

type transactions struct{ ledger *contract.Ledger }

// Submit takes a signed sdk.Envelope, authenticates it and applies its action.
func (t transactions) Submit(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: reading body: %v", sdk.ErrMalformedEnvelope, err))
		return
	}
	var envelope sdk.Envelope
	if err := envelope.UnmarshalJSON(body); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", sdk.ErrMalformedEnvelope, err))
		return
	}
	env, err := envelope.Verify()
	if err != nil {
		abortWithError(c, err)
		return
	}
	result, err := t.ledger.Submit(c.Request.Context(), env, envelope.Action, []byte(envelope.Payload))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tx_id":  envelope.TxID,
		"action": envelope.Action,
		"result": result,
	})
}
