package leaderboard

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/pitch"
	"github.com/SlpAus/startup-pitch-backend/internal/team"
	"github.com/gin-gonic/gin"
)

// EntryResponse 是榜单一行的返回结构
type EntryResponse struct {
	Position int                 `json:"position"`
	Pitch    pitch.PitchResponse `json:"pitch"`
	TeamName string              `json:"teamName"`
}

func formatEntries(entries []Entry) []EntryResponse {
	responses := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, EntryResponse{
			Position: entries[i].Position,
			Pitch:    pitch.FormatPitch(&entries[i].Pitch),
			TeamName: entries[i].TeamName,
		})
	}
	return responses
}

// HandleGetLeaderboard 处理 GET /api/leaderboard 请求
func HandleGetLeaderboard(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))

	q := Query{
		Category:  c.Query("category"),
		Stage:     c.Query("stage"),
		TimeRange: c.Query("timeRange"),
		Page:      page,
		PageSize:  pageSize,
	}

	result, err := GetLeaderboard(q, time.Now())
	if err != nil {
		if errors.Is(err, ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询榜单失败"})
		return
	}

	pages := (result.Total + int64(result.PageSize) - 1) / int64(result.PageSize)
	c.JSON(http.StatusOK, gin.H{
		"leaderboard": formatEntries(result.Entries),
		"pagination": gin.H{
			"page":  result.Page,
			"limit": result.PageSize,
			"total": result.Total,
			"pages": pages,
		},
	})
}

// HandleGetPosition 处理 GET /api/leaderboard/position/:pitchId 请求
func HandleGetPosition(c *gin.Context) {
	pos, err := PositionOf(c.Param("pitchId"))
	if err != nil {
		if errors.Is(err, pitch.ErrPitchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询排名失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"position":  pos.Position,
		"pitch":     pitch.FormatPitch(&pos.Pitch),
		"neighbors": formatEntries(pos.Neighbors),
	})
}

// HandleGetTeamPosition 处理 GET /api/leaderboard/team/:teamId 请求
func HandleGetTeamPosition(c *gin.Context) {
	pos, err := PositionOfTeam(c.Param("teamId"))
	if err != nil {
		if errors.Is(err, pitch.ErrPitchNotFound) || errors.Is(err, team.ErrTeamNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": pitch.ErrPitchNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询排名失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"position":  pos.Position,
		"pitch":     pitch.FormatPitch(&pos.Pitch),
		"neighbors": formatEntries(pos.Neighbors),
	})
}

// HandleGetStats 处理 GET /api/leaderboard/stats 请求
func HandleGetStats(c *gin.Context) {
	stats, err := GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "统计榜单失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalPitches":  stats.TotalPitches,
		"totalVotes":    stats.TotalVotes,
		"averageRating": stats.AverageRating,
		"byCategory":    stats.ByCategory,
		"byStage":       stats.ByStage,
	})
}

// HandleGetTrending 处理 GET /api/leaderboard/trending 请求
func HandleGetTrending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := GetTrending(limit, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询热门Pitch失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trending": formatEntries(entries), "total": len(entries)})
}
