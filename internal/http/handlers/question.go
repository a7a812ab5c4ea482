package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/provaloop/studyloop-backend/internal/http/response"
	"github.com/provaloop/studyloop-backend/internal/modules/assessment"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

type QuestionHandler struct {
	log        *logger.Logger
	assessment assessment.Usecases
}

func NewQuestionHandler(log *logger.Logger, assessment assessment.Usecases) *QuestionHandler {
	return &QuestionHandler{
		log:        log.With("handler", "QuestionHandler"),
		assessment: assessment,
	}
}

type submitAnswerRequest struct {
	Answer *bool `json:"answer"`
}

func (h *QuestionHandler) Answer(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Answer == nil {
		response.RespondError(c, http.StatusBadRequest, "missing_answer", nil)
		return
	}

	out, err := h.assessment.SubmitAnswer(c.Request.Context(), assessment.SubmitAnswerInput{
		UserID:     userID,
		QuestionID: questionID,
		Answer:     *req.Answer,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}
