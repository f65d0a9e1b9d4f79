package service

import (
	"testing"

	"github.com/user/scareclub/internal/model"
)

func TestOverlapIndexDedup(t *testing.T) {
	idx := NewOverlapIndex([]model.Review{
		{MovieID: 1, Reviewer: "alice"},
		{MovieID: 1, Reviewer: "alice"}, // 重复行
		{MovieID: 1, Reviewer: "bob"},
		{MovieID: 2, Reviewer: "alice"},
		{MovieID: 3, Reviewer: ""}, // 匿名影评丢弃
	})

	if got := idx.ReviewerCountOf(1); got != 2 {
		t.Errorf("重复 (movie, reviewer) 应只计一次，得到 %d", got)
	}
	if got := idx.ReviewTotal(); got != 3 {
		t.Errorf("去重后的影评总数应为 3，得到 %d", got)
	}
	if idx.HasReviews(3) {
		t.Error("只有匿名影评的电影应视为无影评")
	}
	if got := idx.ReviewerCount(); got != 2 {
		t.Errorf("评论者总数应为 2，得到 %d", got)
	}
}

func TestCoReviewedCounts(t *testing.T) {
	idx := NewOverlapIndex([]model.Review{
		{MovieID: 1, Reviewer: "alice"},
		{MovieID: 1, Reviewer: "bob"},
		{MovieID: 2, Reviewer: "alice"},
		{MovieID: 2, Reviewer: "bob"},
		{MovieID: 3, Reviewer: "alice"},
	})

	counts := idx.CoReviewedCounts(1)
	if counts[2] != 2 {
		t.Errorf("电影 2 与两位评论者重合，得到 %d", counts[2])
	}
	if counts[3] != 1 {
		t.Errorf("电影 3 只与 alice 重合，得到 %d", counts[3])
	}
	if _, ok := counts[1]; ok {
		t.Error("查询电影自身不应出现在共同评论计数里")
	}

	// 共享计数不可能超过查询电影的评论者总数
	reviewerCount := idx.ReviewerCountOf(1)
	for movieID, shared := range counts {
		if shared > reviewerCount {
			t.Errorf("电影 %d 的共享计数 %d 超过评论者总数 %d", movieID, shared, reviewerCount)
		}
	}
}

func TestCoReviewedCountsNoReviews(t *testing.T) {
	idx := NewOverlapIndex([]model.Review{
		{MovieID: 1, Reviewer: "alice"},
	})

	if counts := idx.CoReviewedCounts(99); len(counts) != 0 {
		t.Errorf("无影评的电影共同评论计数应为空，得到 %v", counts)
	}
}
