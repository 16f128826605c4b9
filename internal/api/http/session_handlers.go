package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/microshell/internal/domain/session"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
	"github.com/GriffinCanCode/microshell/internal/shared/utils"
)

type createSessionRequest struct {
	// Path is navigated to right away when set
	Path string `json:"path"`
}

type navigateRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type activeMenuRequest struct {
	ID string `json:"id" binding:"required"`
}

// CreateSession starts a shell session
func (h *Handlers) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, fmt.Errorf("%w: %v", utils.ErrInvalid, err))
			return
		}
	}
	if req.Path != "" {
		if err := utils.ValidatePath(req.Path, "path"); err != nil {
			abortWithError(c, err)
			return
		}
	}

	sess := h.sessions.Create()
	h.metrics.SessionCreated(h.sessions.Len())

	body := gin.H{"session": sess.Info()}
	if req.Path != "" {
		tr, err := h.navigate(c, sess, "", req.Path)
		if err != nil {
			abortWithError(c, err)
			return
		}
		body["transition"] = tr
	}
	body["snapshot"] = sess.Shell.Snapshot()
	c.JSON(http.StatusCreated, body)
}

// ListSessions lists live sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions": h.sessions.List(),
		"stats":    h.sessions.Stats(),
	})
}

// GetSession returns a session snapshot
func (h *Handlers) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":  sess.Info(),
		"snapshot": sess.Shell.Snapshot(),
	})
}

// DeleteSession drops a session
func (h *Handlers) DeleteSession(c *gin.Context) {
	sessionID := c.Param("id")
	if err := utils.ValidateID(sessionID, "session_id", true); err != nil {
		abortWithError(c, err)
		return
	}
	if err := h.sessions.Delete(sessionID); err != nil {
		abortWithError(c, err)
		return
	}
	h.metrics.SessionDeleted(h.sessions.Len())

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sessionID,
	})
}

// Navigate runs the route guard for {from, to}. An empty from means the
// session's current path.
func (h *Handlers) Navigate(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", utils.ErrInvalid, err))
		return
	}
	if err := utils.ValidatePath(req.To, "to"); err != nil {
		abortWithError(c, err)
		return
	}
	if req.From != "" {
		if err := utils.ValidatePath(req.From, "from"); err != nil {
			abortWithError(c, err)
			return
		}
	}

	tr, err := h.navigate(c, sess, req.From, req.To)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transition": tr,
		"snapshot":   sess.Shell.Snapshot(),
	})
}

// SetActiveMenu highlights a menu node; unknown ids leave state unchanged
func (h *Handlers) SetActiveMenu(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req activeMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", utils.ErrInvalid, err))
		return
	}

	changed, err := sess.Shell.SetActiveMenu(req.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"changed":  changed,
		"snapshot": sess.Shell.Snapshot(),
	})
}

// CloseTab closes a page tab. Closing the active tab moves the session to
// the neighbour that took over in the same snapshot.
func (h *Handlers) CloseTab(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	tabID := c.Param("tabId")
	if tabID == "" {
		abortWithError(c, fmt.Errorf("%w: tab id is required", utils.ErrInvalid))
		return
	}

	_, span := h.tracer.Start(c.Request.Context(), "shell.close_tab",
		attribute.String("session_id", sess.ID),
		attribute.String("tab_id", tabID),
	)
	done := h.metrics.TrackNavigation()

	tr, err := sess.Shell.CloseTab(tabID)
	tracing.End(span, err)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.metrics.TabClosed()

	body := gin.H{"closed": tabID, "next": tr.To}
	if tr.To != "" {
		done(tr, nil)
		body["transition"] = tr
	}
	body["snapshot"] = sess.Shell.Snapshot()
	c.JSON(http.StatusOK, body)
}

// session loads the :id session, writing the error response on failure
func (h *Handlers) session(c *gin.Context) (*session.Session, bool) {
	sessionID := c.Param("id")
	if err := utils.ValidateID(sessionID, "session_id", true); err != nil {
		abortWithError(c, err)
		return nil, false
	}
	sess, err := h.sessions.Get(sessionID)
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return sess, true
}

func (h *Handlers) navigate(c *gin.Context, sess *session.Session, from, to string) (types.Transition, error) {
	if from == "" {
		from = sess.Shell.Snapshot().Path
	}

	_, span := h.tracer.Start(c.Request.Context(), "shell.navigate",
		attribute.String("session_id", sess.ID),
		attribute.String("to", to),
	)
	done := h.metrics.TrackNavigation()

	tr, err := sess.Shell.Navigate(from, to)
	done(tr, err)
	if err == nil {
		span.SetAttributes(attribute.String("app", tr.App), attribute.Bool("redirected", tr.Redirected))
	}
	tracing.End(span, err)
	if err != nil {
		h.logger.Error("Navigation failed",
			zap.String("session_id", sess.ID), zap.String("to", to), zap.Error(err))
		return tr, err
	}
	return tr, nil
}
