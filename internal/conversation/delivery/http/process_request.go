package http

import (
	"github.com/gin-gonic/gin"
)

// processQueryReq binds, normalizes and validates the query body.
// On failure it returns the offending field name.
func (h *handler) processQueryReq(c *gin.Context) (queryReq, string, error) {
	var req queryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, fieldBody, errInvalidBody
	}
	req.normalize()
	field, err := req.validate()
	return req, field, err
}
