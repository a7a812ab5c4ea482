package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/provaloop/studyloop-backend/internal/http/response"
	"github.com/provaloop/studyloop-backend/internal/modules/dispute"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

type DisputeHandler struct {
	log      *logger.Logger
	disputes dispute.Usecases
}

func NewDisputeHandler(log *logger.Logger, disputes dispute.Usecases) *DisputeHandler {
	return &DisputeHandler{
		log:      log.With("handler", "DisputeHandler"),
		disputes: disputes,
	}
}

type submitDisputeRequest struct {
	Argument string `json:"argument"`
}

func (h *DisputeHandler) Submit(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req submitDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	out, err := h.disputes.SubmitDispute(c.Request.Context(), dispute.SubmitDisputeInput{
		UserID:     userID,
		QuestionID: questionID,
		Argument:   req.Argument,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *DisputeHandler) History(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.disputes.History(c.Request.Context(), userID, questionID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}
