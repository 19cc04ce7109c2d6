package http

import (
	"github.com/gin-gonic/gin"

	"ecodrive-query-api/pkg/response"
)

// Query godoc
// @Summary     Route a customer message
// @Description Classifies the message, produces the reply and appends both turns to the conversation history.
// @Tags        Conversation
// @Accept      json
// @Produce     json
// @Param       body body queryReq true "Customer message"
// @Success     200  {object} queryResp
// @Failure     400  {object} response.Resp "Bad Request"
// @Failure     429  {object} response.Resp "Too Many Requests"
// @Failure     500  {object} response.Resp "Internal Server Error"
// @Router      /api/v1/query [POST]
func (h *handler) Query(c *gin.Context) {
	ctx := c.Request.Context()

	req, field, err := h.processQueryReq(c)
	if err != nil {
		h.validationError(c, field, err)
		return
	}

	output, err := h.uc.Route(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Route: %v", err)
		h.renderError(c, err)
		return
	}

	response.OK(c, h.newQueryResp(output))
}

// Delete godoc
// @Summary     Delete a conversation
// @Description Removes the stored history. Unknown ids answer found=false.
// @Tags        Conversation
// @Produce     json
// @Param       id path string true "Conversation ID"
// @Success     200 {object} deleteResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/conversations/{id} [DELETE]
func (h *handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.uc.Delete(ctx, c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "uc.Delete: %v", err)
		h.renderError(c, err)
		return
	}

	response.OK(c, deleteResp{Found: output.Found})
}

// History godoc
// @Summary     Get conversation history
// @Description Returns the stored turns, oldest first. Unknown ids return an empty list.
// @Tags        Conversation
// @Produce     json
// @Param       id path string true "Conversation ID"
// @Success     200 {object} historyResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/conversations/{id} [GET]
func (h *handler) History(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.uc.History(ctx, c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "uc.History: %v", err)
		h.renderError(c, err)
		return
	}

	response.OK(c, h.newHistoryResp(output))
}
