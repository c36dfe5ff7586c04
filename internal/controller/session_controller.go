package controller

import (
	"errors"

	"examhall_backend/internal/service"
	"examhall_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Sessions *service.SessionService
	Tests    *service.TestService
}

func NewSessionController(sessions *service.SessionService, tests *service.TestService) *SessionController {
	return &SessionController{Sessions: sessions, Tests: tests}
}

// sessionError maps service sentinels onto the API's status codes.
func sessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, util.ErrTestNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrMissingUser):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrMissingTest),
		errors.Is(err, util.ErrQuestionOutOfRange),
		errors.Is(err, util.ErrOptionOutOfRange):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrEmptyQuestionSet):
		util.UnprocessableEntity(ctx, err.Error())
	case errors.Is(err, util.ErrSessionFinished), errors.Is(err, util.ErrSubmissionInFlight):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary Open an exam session for a test
// @Produce json
// @Security BearerAuth
// @Router /api/sessions [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		TestID string `json:"testId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Sessions.StartSession(ctx.Request.Context(), user.UserID, req.TestID)
	if err != nil {
		sessionError(ctx, err)
		return
	}

	util.Created(ctx, view)
}

// @Summary Live session state: remaining time and answer sheet
// @Produce json
// @Security BearerAuth
// @Router /api/sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.Sessions.GetSession(ctx.Param("id"), user.UserID)
	if err != nil {
		sessionError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary Select an option for one question
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/sessions/{id}/answer [put]
func (c *SessionController) SelectAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		QuestionIndex *int `json:"questionIndex" binding:"required"`
		OptionIndex   *int `json:"optionIndex" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Sessions.SelectAnswer(ctx.Param("id"), user.UserID, *req.QuestionIndex, *req.OptionIndex)
	if err != nil {
		sessionError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary Toggle the review flag of one question
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/sessions/{id}/review [post]
func (c *SessionController) ToggleReview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req struct {
		QuestionIndex *int `json:"questionIndex" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Sessions.ToggleReview(ctx.Param("id"), user.UserID, *req.QuestionIndex)
	if err != nil {
		sessionError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary Finalize and submit the session
// @Produce json
// @Security BearerAuth
// @Router /api/sessions/{id}/submit [post]
func (c *SessionController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.Sessions.Submit(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	if err != nil {
		if view != nil {
			// Delivery failed but the session survives; tell the client it
			// may retry.
			util.Error(ctx, 502, "submission delivery failed, retry allowed")
			return
		}
		sessionError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary Abandon the session without submitting
// @Produce json
// @Security BearerAuth
// @Router /api/sessions/{id} [delete]
func (c *SessionController) Cancel(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Sessions.Cancel(ctx.Param("id"), user.UserID); err != nil {
		sessionError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"cancelled": ctx.Param("id")})
}

// @Summary Player view of a test definition (no answers, no explanations)
// @Produce json
// @Security BearerAuth
// @Router /api/tests/{id} [get]
func (c *SessionController) GetTest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	test, err := c.Tests.GetTest(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		sessionError(ctx, err)
		return
	}

	util.Success(ctx, service.PlayerView(test))
}
