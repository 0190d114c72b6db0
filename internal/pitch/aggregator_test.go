package pitch

import (
	"math"
	"testing"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"github.com/SlpAus/startup-pitch-backend/internal/team"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ledgerRow 只在测试中使用，落在聚合器读取的votes表上
type ledgerRow struct {
	UUID      string `gorm:"primarykey;type:varchar(36)"`
	PitchID   string
	Rating    int
	UpdatedAt time.Time
}

func (ledgerRow) TableName() string { return "votes" }

func newTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&Pitch{}, &team.Team{}, &ledgerRow{}); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}
	database.DB = db
}

func TestCalculateWeightedScore(t *testing.T) {
	tests := []struct {
		name          string
		averageRating float64
		totalVotes    int
		want          float64
	}{
		{name: "无票恒为0", averageRating: 0, totalVotes: 0, want: 0},
		{name: "单票4分", averageRating: 4.0, totalVotes: 1, want: 4.0 * math.Log10(2)},
		{name: "两票平均3分", averageRating: 3.0, totalVotes: 2, want: 3.0 * math.Log10(3)},
		{name: "两票平均3.5分", averageRating: 3.5, totalVotes: 2, want: 3.5 * math.Log10(3)},
		{name: "单票2分", averageRating: 2.0, totalVotes: 1, want: 2.0 * math.Log10(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateWeightedScore(tt.averageRating, tt.totalVotes)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("CalculateWeightedScore(%v, %d) = %v, want %v", tt.averageRating, tt.totalVotes, got, tt.want)
			}
		})
	}
}

func TestRecomputeAggregates(t *testing.T) {
	newTestDB(t)

	p := &Pitch{UUID: "pitch-1", Title: "Demo", TeamID: "team-1", IsActive: true}
	if err := database.DB.Create(p).Error; err != nil {
		t.Fatalf("创建Pitch失败: %v", err)
	}

	recompute := func() *Stats {
		t.Helper()
		var stats *Stats
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if _, err := LockForAggregation(tx, p.UUID); err != nil {
				return err
			}
			var err error
			stats, err = RecomputeAggregates(tx, p.UUID)
			return err
		})
		if err != nil {
			t.Fatalf("聚合重算失败: %v", err)
		}
		return stats
	}

	// 没有任何投票时四个字段全部归零
	stats := recompute()
	if stats.TotalVotes != 0 || stats.AverageRating != 0 || stats.WeightedScore != 0 || stats.LastVoteAt != nil {
		t.Fatalf("空账本的聚合结果不为零值: %+v", stats)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	votes := []ledgerRow{
		{UUID: "v1", PitchID: p.UUID, Rating: 4, UpdatedAt: base},
		{UUID: "v2", PitchID: p.UUID, Rating: 2, UpdatedAt: base.Add(time.Minute)},
		{UUID: "v3", PitchID: "other-pitch", Rating: 5, UpdatedAt: base},
	}
	for i := range votes {
		if err := database.DB.Create(&votes[i]).Error; err != nil {
			t.Fatalf("写入投票失败: %v", err)
		}
	}

	// 只聚合属于该Pitch的两票，其他Pitch的票不计入
	stats = recompute()
	if stats.TotalVotes != 2 {
		t.Fatalf("TotalVotes = %d, want 2", stats.TotalVotes)
	}
	if math.Abs(stats.AverageRating-3.0) > 1e-9 {
		t.Fatalf("AverageRating = %v, want 3.0", stats.AverageRating)
	}
	if math.Abs(stats.WeightedScore-3.0*math.Log10(3)) > 1e-9 {
		t.Fatalf("WeightedScore = %v, want %v", stats.WeightedScore, 3.0*math.Log10(3))
	}
	if stats.LastVoteAt == nil {
		t.Fatal("LastVoteAt不应为nil")
	}

	// 写回的Pitch行与返回的结果一致
	var stored Pitch
	if err := database.DB.Where("uuid = ?", p.UUID).First(&stored).Error; err != nil {
		t.Fatalf("读取Pitch失败: %v", err)
	}
	if stored.TotalVotes != 2 || math.Abs(stored.WeightedScore-stats.WeightedScore) > 1e-9 {
		t.Fatalf("Pitch行与聚合结果不一致: %+v", stored)
	}

	// 加权分为0当且仅当没有投票
	if err := database.DB.Where("pitch_id = ?", p.UUID).Delete(&ledgerRow{}).Error; err != nil {
		t.Fatalf("清空投票失败: %v", err)
	}
	stats = recompute()
	if stats.TotalVotes != 0 || stats.WeightedScore != 0 {
		t.Fatalf("清空账本后的聚合结果不为零值: %+v", stats)
	}
}
