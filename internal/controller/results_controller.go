package controller

import (
	"errors"

	"examhall_backend/internal/service"
	"examhall_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultsController struct {
	Results     *service.ResultsService
	Submissions *service.SubmissionService
}

func NewResultsController(results *service.ResultsService, submissions *service.SubmissionService) *ResultsController {
	return &ResultsController{Results: results, Submissions: submissions}
}

// @Summary List my archived submissions
// @Produce json
// @Security BearerAuth
// @Router /api/submissions [get]
func (c *ResultsController) ListSubmissions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rows, err := c.Submissions.ListForUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": rows, "total": len(rows)})
}

// @Summary Per-question review of one submission
// @Produce json
// @Security BearerAuth
// @Router /api/submissions/{id}/review [get]
func (c *ResultsController) GetReview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	review, err := c.Results.Review(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubmissionNotFound), errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, review)
}
