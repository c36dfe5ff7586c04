package controller

import (
	"examhall_backend/internal/service"
	"examhall_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	Service *service.LeaderboardService
}

func NewLeaderboardController(svc *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{Service: svc}
}

// @Summary Ranked leaderboard for one test
// @Produce json
// @Security BearerAuth
// @Router /api/tests/{id}/leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	board, err := c.Service.GetLeaderboard(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	if err != nil {
		// 排行榜获取失败时返回空榜，前端显示占位状态
		util.BadGateway(ctx, "leaderboard temporarily unavailable")
		return
	}

	util.Success(ctx, board)
}
