package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/provaloop/studyloop-backend/internal/http/response"
	"github.com/provaloop/studyloop-backend/internal/modules/assessment"
	"github.com/provaloop/studyloop-backend/internal/platform/ctxutil"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

type SessionHandler struct {
	log        *logger.Logger
	assessment assessment.Usecases
}

func NewSessionHandler(log *logger.Logger, assessment assessment.Usecases) *SessionHandler {
	return &SessionHandler{
		log:        log.With("handler", "SessionHandler"),
		assessment: assessment,
	}
}

func requestUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return uuid.Nil, false
	}
	return id, true
}

type createSessionRequest struct {
	Title      string `json:"title"`
	SourceText string `json:"source_text"`
}

func (h *SessionHandler) Create(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	out, err := h.assessment.CreateSession(c.Request.Context(), assessment.CreateSessionInput{
		UserID:     userID,
		Title:      req.Title,
		SourceText: req.SourceText,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	out, err := h.assessment.ListSessions(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.assessment.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.assessment.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

func (h *SessionHandler) GenerateQuestion(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.assessment.GenerateNextQuestion(c.Request.Context(), assessment.GenerateQuestionInput{
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *SessionHandler) Report(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.assessment.SessionReport(c.Request.Context(), userID, sessionID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}
