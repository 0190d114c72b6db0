package pitch

import (
	"errors"
	"testing"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"github.com/SlpAus/startup-pitch-backend/internal/team"
)

func createTeam(t *testing.T, id, founderID string) {
	t.Helper()
	err := database.DB.Create(&team.Team{
		UUID:      id,
		Name:      "Team " + id,
		FounderID: founderID,
		IsActive:  true,
	}).Error
	if err != nil {
		t.Fatalf("创建团队失败: %v", err)
	}
}

func validInput() CreateInput {
	return CreateInput{
		Title:       "AI Notetaker",
		OneLiner:    "Meetings that write themselves",
		Description: "A tool that records and summarizes meetings.",
		Category:    "Technology",
		Stage:       "MVP",
		DemoURL:     "https://demo.example.com",
		DeckURL:     "https://deck.example.com",
	}
}

func TestCreatePitch(t *testing.T) {
	newTestDB(t)
	createTeam(t, "team-1", "founder-1")

	p, err := Create("team-1", validInput())
	if err != nil {
		t.Fatalf("创建Pitch失败: %v", err)
	}
	if p.TotalVotes != 0 || p.WeightedScore != 0 {
		t.Fatalf("新Pitch的聚合字段应为零: %+v", p)
	}

	// 每个团队只能提交一个Pitch
	if _, err := Create("team-1", validInput()); !errors.Is(err, ErrTeamAlreadyHasPitch) {
		t.Fatalf("err = %v, want ErrTeamAlreadyHasPitch", err)
	}

	// 团队不存在
	if _, err := Create("no-such-team", validInput()); !errors.Is(err, team.ErrTeamNotFound) {
		t.Fatalf("err = %v, want ErrTeamNotFound", err)
	}
}

func TestCreatePitchValidation(t *testing.T) {
	newTestDB(t)
	createTeam(t, "team-1", "founder-1")

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{name: "未知category", mutate: func(in *CreateInput) { in.Category = "Blockchain" }},
		{name: "未知stage", mutate: func(in *CreateInput) { in.Stage = "Unicorn" }},
		{name: "demoUrl不是http地址", mutate: func(in *CreateInput) { in.DemoURL = "ftp://demo" }},
		{name: "deckUrl不是http地址", mutate: func(in *CreateInput) { in.DeckURL = "deck.pdf" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			if _, err := Create("team-1", input); !errors.Is(err, ErrInvalidField) {
				t.Fatalf("err = %v, want ErrInvalidField", err)
			}
		})
	}
}

func TestUpdateAndDeletePitchOwnership(t *testing.T) {
	newTestDB(t)
	createTeam(t, "team-1", "founder-1")

	p, err := Create("team-1", validInput())
	if err != nil {
		t.Fatalf("创建Pitch失败: %v", err)
	}

	newTitle := "AI Notetaker v2"
	if _, err := Update(p.UUID, "founder-2", UpdateInput{Title: &newTitle}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("他人更新 err = %v, want ErrNotOwner", err)
	}

	updated, err := Update(p.UUID, "founder-1", UpdateInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("更新Pitch失败: %v", err)
	}
	if updated.Title != newTitle {
		t.Fatalf("Title = %q, want %q", updated.Title, newTitle)
	}

	if err := Delete(p.UUID, "founder-2"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("他人删除 err = %v, want ErrNotOwner", err)
	}
	if err := Delete(p.UUID, "founder-1"); err != nil {
		t.Fatalf("删除Pitch失败: %v", err)
	}

	// 删除后对读取方表现为不存在
	if _, err := GetByID(p.UUID); !errors.Is(err, ErrPitchNotFound) {
		t.Fatalf("err = %v, want ErrPitchNotFound", err)
	}
}

func TestDeletePitchThenRecreate(t *testing.T) {
	newTestDB(t)
	createTeam(t, "team-1", "founder-1")

	first, err := Create("team-1", validInput())
	if err != nil {
		t.Fatalf("创建Pitch失败: %v", err)
	}
	if err := Delete(first.UUID, "founder-1"); err != nil {
		t.Fatalf("删除Pitch失败: %v", err)
	}

	// 旧行被物理删除，不再占用team_id上的唯一索引
	var count int64
	if err := database.DB.Model(&Pitch{}).Where("team_id = ?", "team-1").Count(&count).Error; err != nil {
		t.Fatalf("统计Pitch行数失败: %v", err)
	}
	if count != 0 {
		t.Fatalf("删除后残留 %d 行", count)
	}

	// 团队删掉旧Pitch后可以重新提交
	second, err := Create("team-1", validInput())
	if err != nil {
		t.Fatalf("删除后重新提交Pitch失败: %v", err)
	}
	if second.UUID == first.UUID {
		t.Fatalf("重新提交应生成新的UUID")
	}
	if second.TotalVotes != 0 || second.WeightedScore != 0 {
		t.Fatalf("新Pitch的聚合字段应为零: %+v", second)
	}
}

func TestListPitches(t *testing.T) {
	newTestDB(t)

	seed := []struct {
		team     string
		founder  string
		category string
		stage    string
		title    string
	}{
		{team: "team-1", founder: "f1", category: "Technology", stage: "MVP", title: "Alpha Robotics"},
		{team: "team-2", founder: "f2", category: "Technology", stage: "Idea", title: "Beta Cloud"},
		{team: "team-3", founder: "f3", category: "Healthcare", stage: "MVP", title: "Gamma Health"},
	}
	for _, s := range seed {
		createTeam(t, s.team, s.founder)
		input := validInput()
		input.Category = s.category
		input.Stage = s.stage
		input.Title = s.title
		if _, err := Create(s.team, input); err != nil {
			t.Fatalf("创建Pitch失败: %v", err)
		}
	}

	result, err := List(ListOptions{})
	if err != nil {
		t.Fatalf("查询列表失败: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("Total = %d, want 3", result.Total)
	}

	result, err = List(ListOptions{Category: "Technology", Stage: "MVP"})
	if err != nil {
		t.Fatalf("查询列表失败: %v", err)
	}
	if result.Total != 1 || result.Pitches[0].Title != "Alpha Robotics" {
		t.Fatalf("交集过滤结果错误: total=%d", result.Total)
	}

	result, err = List(ListOptions{Search: "cloud"})
	if err != nil {
		t.Fatalf("查询列表失败: %v", err)
	}
	if result.Total != 1 || result.Pitches[0].Title != "Beta Cloud" {
		t.Fatalf("搜索结果错误: total=%d", result.Total)
	}
}
