package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skillswap-backend/internal/common/middleware"
	"skillswap-backend/internal/features/session/models"
	"skillswap-backend/internal/features/session/service"
)

type SessionHandler struct {
	service service.SessionService
}

func NewSessionHandler(service service.SessionService) *SessionHandler {
	return &SessionHandler{
		service: service,
	}
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.GET("", h.listSessions)
		sessions.POST("", h.createSession)
		sessions.GET("/:id", h.getSession)
		sessions.PUT("/:id", h.updateSession)
		sessions.POST("/:id/join", h.joinSession)
		sessions.POST("/:id/leave", h.leaveSession)
		sessions.POST("/:id/start-meeting", h.startMeeting)
		sessions.POST("/:id/end-meeting", h.endMeeting)
		sessions.GET("/:id/meeting-room", h.getMeetingRoom)
	}

	users := router.Group("/users")
	{
		users.GET("/:id/sessions/hosted", h.listHostedSessions)
		users.GET("/:id/sessions/attended", h.listAttendedSessions)
	}
}

// enrollmentRequest identifies the user joining or leaving a session.
// Defaults to the current user when omitted.
type enrollmentRequest struct {
	UserID string `json:"userId"`
}

// @Summary List sessions
// @Description Returns all sessions ordered by datetime, enriched with host profiles
// @Tags sessions
// @Produce json
// @Success 200 {array} models.SessionResponse "Sessions"
// @Router /sessions [get]
func (h *SessionHandler) listSessions(c *gin.Context) {
	sessions, err := h.service.List(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// @Summary Get session by ID
// @Description Returns a session enriched with its host's profile
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionResponse "Session"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) getSession(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// @Summary Schedule a session
// @Description Creates a session and credits the host's hosted counter
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body models.SessionCreate true "Session data"
// @Success 201 {object} models.Session "Created session"
// @Failure 400 {object} map[string]string "Invalid session data"
// @Failure 404 {object} map[string]string "Host not found"
// @Router /sessions [post]
func (h *SessionHandler) createSession(c *gin.Context) {
	var input models.SessionCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hostID := input.HostID
	if hostID == "" {
		hostID = middleware.GetCurrentUserID(c)
	}

	session, err := h.service.Create(c.Request.Context(), hostID, &input)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Host not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// @Summary Update session
// @Description Updates host-editable session fields
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param updates body models.SessionUpdate true "Session updates"
// @Success 200 {object} models.Session "Updated session"
// @Failure 400 {object} map[string]string "Invalid update data"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id} [put]
func (h *SessionHandler) updateSession(c *gin.Context) {
	var input models.SessionUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.service.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

// @Summary Join a session
// @Description Enrolls a user, debiting the session cost from their points
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param enrollment body enrollmentRequest false "User joining (defaults to current user)"
// @Success 200 {object} map[string]string "Joined"
// @Failure 402 {object} map[string]string "Not enough points"
// @Failure 404 {object} map[string]string "Session or user not found"
// @Failure 409 {object} map[string]string "Already enrolled or session full"
// @Router /sessions/{id}/join [post]
func (h *SessionHandler) joinSession(c *gin.Context) {
	userID := h.enrollmentUserID(c)
	if userID == "" {
		return
	}

	if err := h.service.Join(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.abortEnrollmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully joined session"})
}

// @Summary Leave a session
// @Description Withdraws a user, refunding the points paid at join time
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param enrollment body enrollmentRequest false "User leaving (defaults to current user)"
// @Success 200 {object} map[string]string "Left"
// @Failure 404 {object} map[string]string "Session or user not found"
// @Failure 409 {object} map[string]string "Not enrolled"
// @Router /sessions/{id}/leave [post]
func (h *SessionHandler) leaveSession(c *gin.Context) {
	userID := h.enrollmentUserID(c)
	if userID == "" {
		return
	}

	if err := h.service.Leave(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.abortEnrollmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully left session"})
}

// @Summary Start the meeting
// @Description Opens the session's meeting room. Host only, idempotent.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]interface{} "Meeting state"
// @Failure 403 {object} map[string]string "Not the host"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/start-meeting [post]
func (h *SessionHandler) startMeeting(c *gin.Context) {
	session, err := h.service.StartMeeting(c.Request.Context(), c.Param("id"), middleware.GetCurrentUserID(c))
	if err != nil {
		h.abortEnrollmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Meeting started successfully",
		"meetingRoomId":  session.MeetingRoomID,
		"meetingStarted": session.MeetingStarted,
	})
}

// @Summary End the meeting
// @Description Closes the meeting room and marks the session completed. Host only, idempotent.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]interface{} "Meeting state"
// @Failure 403 {object} map[string]string "Not the host"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/end-meeting [post]
func (h *SessionHandler) endMeeting(c *gin.Context) {
	session, err := h.service.EndMeeting(c.Request.Context(), c.Param("id"), middleware.GetCurrentUserID(c))
	if err != nil {
		h.abortEnrollmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Meeting ended successfully",
		"isCompleted": session.IsCompleted,
	})
}

// @Summary Get meeting room
// @Description Returns the video-call context. Accessible to the host and participants only.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.MeetingRoom "Meeting room"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/meeting-room [get]
func (h *SessionHandler) getMeetingRoom(c *gin.Context) {
	room, err := h.service.GetMeetingRoom(c.Request.Context(), c.Param("id"), middleware.GetCurrentUserID(c))
	if err != nil {
		h.abortEnrollmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// @Summary List hosted sessions
// @Description Returns the sessions a user hosts
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.Session "Sessions"
// @Router /users/{id}/sessions/hosted [get]
func (h *SessionHandler) listHostedSessions(c *gin.Context) {
	sessions, err := h.service.ListByHost(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// @Summary List attended sessions
// @Description Returns the sessions a user is enrolled in
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.Session "Sessions"
// @Router /users/{id}/sessions/attended [get]
func (h *SessionHandler) listAttendedSessions(c *gin.Context) {
	sessions, err := h.service.ListByParticipant(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *SessionHandler) enrollmentUserID(c *gin.Context) string {
	var input enrollmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return ""
		}
	}

	if input.UserID != "" {
		return input.UserID
	}

	userID := middleware.GetCurrentUserID(c)
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
	}
	return userID
}

// abortEnrollmentError maps ledger errors to distinct HTTP statuses so the
// client can tell the failure reasons apart.
func (h *SessionHandler) abortEnrollmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrAlreadyEnrolled):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Already joined this session"})
	case errors.Is(err, service.ErrSessionFull):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Session is full"})
	case errors.Is(err, service.ErrInsufficientPoints):
		c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "Not enough points to join"})
	case errors.Is(err, service.ErrNotEnrolled):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Not a participant of this session"})
	case errors.Is(err, service.ErrNotHost):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Only the host can perform this action"})
	case errors.Is(err, service.ErrRoomAccessDenied):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: not a participant of this session"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
