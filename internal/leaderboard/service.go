package leaderboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/pitch"
	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"github.com/SlpAus/startup-pitch-backend/internal/team"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50

	// NeighborWindow 是查询排名时附带的前后名次数量
	NeighborWindow = 2
)

var ErrInvalidTimeRange = errors.New("timeRange只能是all、week或month")

// Query 是榜单查询的筛选条件，category和stage为空时不过滤
type Query struct {
	Category  string
	Stage     string
	TimeRange string
	Page      int
	PageSize  int
}

// Entry 是榜单上的一行
type Entry struct {
	Position int
	Pitch    pitch.Pitch
	TeamName string
}

// Result 是一页榜单及总数
type Result struct {
	Entries  []Entry
	Total    int64
	Page     int
	PageSize int
}

// rankingOrder 是榜单的三级排序：加权分降序，最近投票时间降序
// （从未被投票的排在最后），创建时间降序。
// (last_vote_at IS NULL)在SQLite和PostgreSQL下都可以直接参与排序。
const rankingOrder = "weighted_score DESC, (last_vote_at IS NULL) ASC, last_vote_at DESC, created_at DESC"

// timeRangeCutoff 把timeRange换算成创建时间下界，all返回零值
func timeRangeCutoff(timeRange string, now time.Time) (time.Time, error) {
	switch timeRange {
	case "", "all":
		return time.Time{}, nil
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	default:
		return time.Time{}, ErrInvalidTimeRange
	}
}

// applyFilters 把筛选条件叠加到查询上，各条件之间是AND关系
func applyFilters(db *gorm.DB, q Query, now time.Time) (*gorm.DB, error) {
	db = db.Where("is_active = ?", true)
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.Stage != "" {
		db = db.Where("stage = ?", q.Stage)
	}
	cutoff, err := timeRangeCutoff(q.TimeRange, now)
	if err != nil {
		return nil, err
	}
	if !cutoff.IsZero() {
		db = db.Where("created_at >= ?", cutoff)
	}
	return db, nil
}

// GetLeaderboard 返回一页排好序的榜单。
// 筛选在排序和分页之前生效，页内名次根据页码换算为全局名次。
func GetLeaderboard(q Query, now time.Time) (*Result, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		q.PageSize = DefaultPageSize
	}

	base, err := applyFilters(database.DB.Model(&pitch.Pitch{}), q, now)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("统计榜单总数失败: %w", err)
	}

	var pitches []pitch.Pitch
	err = base.Session(&gorm.Session{}).Order(rankingOrder).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&pitches).Error
	if err != nil {
		return nil, fmt.Errorf("查询榜单失败: %w", err)
	}

	entries := make([]Entry, 0, len(pitches))
	for i := range pitches {
		entries = append(entries, Entry{
			Position: (q.Page-1)*q.PageSize + i + 1,
			Pitch:    pitches[i],
			TeamName: teamNameOf(pitches[i].TeamID),
		})
	}
	return &Result{Entries: entries, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

func teamNameOf(teamID string) string {
	t, err := team.GetByID(teamID)
	if err != nil {
		return ""
	}
	return t.Name
}

// Position 是单个Pitch的排名及其前后若干名
type Position struct {
	Position  int
	Pitch     pitch.Pitch
	Neighbors []Entry
}

// PositionOf 计算某个Pitch当前的全局排名（1起）。
// 排名等于排序键严格大于它的Pitch数加一，每次调用都从
// 当前聚合数据现算，不依赖任何缓存的名次。
func PositionOf(pitchID string) (*Position, error) {
	p, err := pitch.GetByID(pitchID)
	if err != nil {
		return nil, err
	}
	return positionOfPitch(p)
}

// PositionOfTeam 按团队查排名，团队没有Pitch时视同不存在
func PositionOfTeam(teamID string) (*Position, error) {
	p, err := pitch.GetByTeamID(teamID)
	if err != nil {
		return nil, err
	}
	return positionOfPitch(p)
}

func positionOfPitch(p *pitch.Pitch) (*Position, error) {
	// 严格大于的判定与rankingOrder逐级对应
	greater := database.DB.Model(&pitch.Pitch{}).Where("is_active = ? AND uuid <> ?", true, p.UUID)
	if p.LastVoteAt == nil {
		greater = greater.Where(
			"weighted_score > ? OR (weighted_score = ? AND last_vote_at IS NOT NULL) OR (weighted_score = ? AND last_vote_at IS NULL AND created_at > ?)",
			p.WeightedScore, p.WeightedScore, p.WeightedScore, p.CreatedAt,
		)
	} else {
		greater = greater.Where(
			"weighted_score > ? OR (weighted_score = ? AND last_vote_at > ?) OR (weighted_score = ? AND last_vote_at = ? AND created_at > ?)",
			p.WeightedScore, p.WeightedScore, p.LastVoteAt, p.WeightedScore, p.LastVoteAt, p.CreatedAt,
		)
	}

	var ahead int64
	if err := greater.Count(&ahead).Error; err != nil {
		return nil, fmt.Errorf("计算排名失败: %w", err)
	}
	position := int(ahead) + 1

	// 取排名前后各NeighborWindow个，用一次窗口查询完成
	offset := position - 1 - NeighborWindow
	limit := 2*NeighborWindow + 1
	if offset < 0 {
		limit += offset
		offset = 0
	}

	var window []pitch.Pitch
	err := database.DB.Model(&pitch.Pitch{}).
		Where("is_active = ?", true).
		Order(rankingOrder).
		Offset(offset).
		Limit(limit).
		Find(&window).Error
	if err != nil {
		return nil, fmt.Errorf("查询相邻排名失败: %w", err)
	}

	neighbors := make([]Entry, 0, len(window))
	for i := range window {
		neighbors = append(neighbors, Entry{
			Position: offset + i + 1,
			Pitch:    window[i],
			TeamName: teamNameOf(window[i].TeamID),
		})
	}
	return &Position{Position: position, Pitch: *p, Neighbors: neighbors}, nil
}

// Stats 是榜单的整体统计
type Stats struct {
	TotalPitches  int64
	TotalVotes    int64
	ByCategory    map[string]int64
	ByStage       map[string]int64
	AverageRating float64
}

// GetStats 汇总当前榜单的整体数据
func GetStats() (*Stats, error) {
	stats := &Stats{
		ByCategory: make(map[string]int64),
		ByStage:    make(map[string]int64),
	}

	base := database.DB.Model(&pitch.Pitch{}).Where("is_active = ?", true)

	type sumRow struct {
		Count     int64
		VoteSum   int64
		RatingSum float64
	}
	var sum sumRow
	err := base.Session(&gorm.Session{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_votes), 0) AS vote_sum, COALESCE(SUM(average_rating * total_votes), 0) AS rating_sum").
		Scan(&sum).Error
	if err != nil {
		return nil, fmt.Errorf("统计榜单数据失败: %w", err)
	}
	stats.TotalPitches = sum.Count
	stats.TotalVotes = sum.VoteSum
	if sum.VoteSum > 0 {
		stats.AverageRating = sum.RatingSum / float64(sum.VoteSum)
	}

	type groupRow struct {
		Key   string
		Count int64
	}
	var byCategory []groupRow
	err = base.Session(&gorm.Session{}).
		Select("category AS key, COUNT(*) AS count").Group("category").Scan(&byCategory).Error
	if err != nil {
		return nil, fmt.Errorf("按类别统计失败: %w", err)
	}
	for _, row := range byCategory {
		stats.ByCategory[row.Key] = row.Count
	}

	var byStage []groupRow
	err = base.Session(&gorm.Session{}).
		Select("stage AS key, COUNT(*) AS count").Group("stage").Scan(&byStage).Error
	if err != nil {
		return nil, fmt.Errorf("按阶段统计失败: %w", err)
	}
	for _, row := range byStage {
		stats.ByStage[row.Key] = row.Count
	}

	return stats, nil
}

// GetTrending 返回最近7天内被投过票的Pitch。
// 热门榜按投票量而不是加权分排序：短期内吸引票数最多的排在前面。
func GetTrending(limit int, now time.Time) ([]Entry, error) {
	if limit < 1 || limit > MaxPageSize {
		limit = 10
	}
	cutoff := now.AddDate(0, 0, -7)

	var pitches []pitch.Pitch
	err := database.DB.Model(&pitch.Pitch{}).
		Where("is_active = ? AND last_vote_at >= ?", true, cutoff).
		Order("total_votes DESC, last_vote_at DESC").
		Limit(limit).
		Find(&pitches).Error
	if err != nil {
		return nil, fmt.Errorf("查询热门Pitch失败: %w", err)
	}

	entries := make([]Entry, 0, len(pitches))
	for i := range pitches {
		entries = append(entries, Entry{
			Position: i + 1,
			Pitch:    pitches[i],
			TeamName: teamNameOf(pitches[i].TeamID),
		})
	}
	return entries, nil
}
