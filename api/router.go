package api

import (
	"github.com/SlpAus/startup-pitch-backend/internal/feedback"
	"github.com/SlpAus/startup-pitch-backend/internal/leaderboard"
	"github.com/SlpAus/startup-pitch-backend/internal/pitch"
	"github.com/SlpAus/startup-pitch-backend/internal/team"
	"github.com/SlpAus/startup-pitch-backend/internal/user"
	"github.com/SlpAus/startup-pitch-backend/internal/vote"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 认证相关的路由
		auth := api.Group("/auth")
		{
			auth.POST("/signup", user.HandleSignup)
			auth.POST("/signin", user.HandleSignin)
			auth.GET("/profile", user.AuthMiddleware(), user.HandleProfile)
		}

		// 团队相关的路由
		teams := api.Group("/teams")
		{
			teams.GET("/:id", team.HandleGetTeam)
			teams.POST("", user.AuthMiddleware(),
				user.RequireCapability(func(caps user.Capabilities) bool { return caps.CanCreateTeam }, "只有创业者可以创建团队"),
				team.HandleCreateTeam)
			teams.PUT("/:id", user.AuthMiddleware(), team.HandleUpdateTeam)
		}

		// Pitch相关的路由
		pitches := api.Group("/pitches")
		{
			pitches.GET("", pitch.HandleListPitches)
			pitches.GET("/filters", pitch.HandleGetFilters)
			pitches.GET("/:id", pitch.HandleGetPitch)
			pitches.POST("", user.AuthMiddleware(),
				user.RequireCapability(func(caps user.Capabilities) bool { return caps.CanSubmitPitch }, "只有创业者可以提交Pitch"),
				pitch.HandleCreatePitch)
			pitches.PUT("/:id", user.AuthMiddleware(), pitch.HandleUpdatePitch)
			pitches.DELETE("/:id", user.AuthMiddleware(), pitch.HandleDeletePitch)

			// 投票相关的路由
			pitches.POST("/:id/vote", user.AuthMiddleware(),
				user.RequireCapability(func(caps user.Capabilities) bool { return caps.CanVote }, "只有评审可以投票"),
				vote.HandleSubmitVote)
			pitches.GET("/:id/votes/stats", vote.HandlePitchVoteStats)

			// 反馈相关的路由
			pitches.POST("/:id/feedback", user.AuthMiddleware(),
				user.RequireCapability(func(caps user.Capabilities) bool { return caps.CanLeaveFeedback }, "只有评审可以留反馈"),
				feedback.HandleCreateFeedback)
			pitches.GET("/:id/feedback", feedback.HandleListFeedback)
		}

		// 投票记录的路由
		votes := api.Group("/votes", user.AuthMiddleware())
		{
			votes.GET("/mine", vote.HandleMyVotes)
			votes.DELETE("/:id", vote.HandleDeleteVote)
		}

		// 反馈记录的路由
		api.DELETE("/feedback/:id", user.AuthMiddleware(), feedback.HandleDeleteFeedback)

		// 榜单相关的路由
		board := api.Group("/leaderboard")
		{
			board.GET("", leaderboard.HandleGetLeaderboard)
			board.GET("/stats", leaderboard.HandleGetStats)
			board.GET("/trending", leaderboard.HandleGetTrending)
			board.GET("/position/:pitchId", leaderboard.HandleGetPosition)
			board.GET("/team/:teamId", leaderboard.HandleGetTeamPosition)
		}
	}
}
