package service

import (
	"github.com/user/scareclub/internal/model"
)

// OverlapIndex 影评重合索引
// 维护 电影→评论者集合 和 评论者→电影集合 两个映射
type OverlapIndex struct {
	movieToUsers map[int]map[string]bool
	userToMovies map[string]map[int]bool
	reviewTotal  int
}

// NewOverlapIndex 从影评记录构建索引
// (movie, reviewer) 对在缓存里唯一，重复行只计一次
func NewOverlapIndex(reviews []model.Review) *OverlapIndex {
	idx := &OverlapIndex{
		movieToUsers: make(map[int]map[string]bool),
		userToMovies: make(map[string]map[int]bool),
	}

	for _, review := range reviews {
		if review.Reviewer == "" {
			continue
		}
		users := idx.movieToUsers[review.MovieID]
		if users == nil {
			users = make(map[string]bool)
			idx.movieToUsers[review.MovieID] = users
		}
		if users[review.Reviewer] {
			continue
		}
		users[review.Reviewer] = true
		idx.reviewTotal++

		movies := idx.userToMovies[review.Reviewer]
		if movies == nil {
			movies = make(map[int]bool)
			idx.userToMovies[review.Reviewer] = movies
		}
		movies[review.MovieID] = true
	}

	return idx
}

// HasReviews 某部电影是否有影评
func (idx *OverlapIndex) HasReviews(movieID int) bool {
	return len(idx.movieToUsers[movieID]) > 0
}

// ReviewersOf 某部电影的评论者集合
func (idx *OverlapIndex) ReviewersOf(movieID int) map[string]bool {
	return idx.movieToUsers[movieID]
}

// ReviewerCountOf 某部电影的评论者人数
func (idx *OverlapIndex) ReviewerCountOf(movieID int) int {
	return len(idx.movieToUsers[movieID])
}

// CoReviewedCounts 共同评论计数
// 合并查询电影每位评论者看过的其他电影，统计每部出现的次数；
// 查询电影自身被排除。共享计数 ≤ 评论者总数，归一化后必然落在 [0,1]
func (idx *OverlapIndex) CoReviewedCounts(movieID int) map[int]int {
	counts := make(map[int]int)
	for user := range idx.movieToUsers[movieID] {
		for otherID := range idx.userToMovies[user] {
			if otherID != movieID {
				counts[otherID]++
			}
		}
	}
	return counts
}

// ReviewedMovieCount 有影评的电影数
func (idx *OverlapIndex) ReviewedMovieCount() int {
	return len(idx.movieToUsers)
}

// ReviewerCount 评论者总数
func (idx *OverlapIndex) ReviewerCount() int {
	return len(idx.userToMovies)
}

// ReviewTotal 去重后的影评总条数
func (idx *OverlapIndex) ReviewTotal() int {
	return idx.reviewTotal
}
