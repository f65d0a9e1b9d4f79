package model

import (
	"time"
)

// 推荐方式
const (
	MethodHybrid      = "hybrid"       // 用户重合 + 内容相似
	MethodContentOnly = "content-only" // 纯内容相似（无影评数据时的兜底）
)

// RankedEntry 一条推荐结果（携带完整元数据，便于调用方审计排序依据）
type RankedEntry struct {
	MovieID           int     `json:"movie_id"`
	Title             string  `json:"title"`
	Year              int     `json:"year"`
	HybridScore       float64 `json:"hybrid_score"`
	UserOverlapCount  int     `json:"user_overlap_count"`
	ContentSimilarity float64 `json:"content_similarity"`
	Method            string  `json:"method"`
	Movie             *Movie  `json:"movie,omitempty"`
}

// Recommendation 一次推荐请求的完整结果
type Recommendation struct {
	Movie   *Movie        `json:"movie"`
	Entries []RankedEntry `json:"results"`
	Method  string        `json:"method"`
	// Degenerate 表示查询电影有影评但没有候选通过内容相似过滤，
	// 结果退化为纯内容排序（区别于冷启动兜底）
	Degenerate bool `json:"degenerate,omitempty"`
}

// MovieSummary 电影摘要（搜索结果）
type MovieSummary struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Director    string   `json:"director"`
	Genres      []string `json:"genres"`
	DataSource  string   `json:"data_source"`
	IsCoreGenre bool     `json:"is_core_genre"`
	ReviewCount int      `json:"review_count"`
	PosterURL   string   `json:"poster_url"`
	Rating      float64  `json:"rating"`
}

// Stats 数据集统计
type Stats struct {
	UniverseSize   int     `json:"universe_size"`
	ReviewedCount  int     `json:"reviewed_count"`
	ReviewerCount  int     `json:"reviewer_count"`
	ReviewTotal    int     `json:"review_total"`
	ClubCount      int     `json:"club_count"`
	CoreGenreCount int     `json:"core_genre_count"`
	Coverage       float64 `json:"coverage"` // 有影评电影占比（百分数）
}

// QueryLog 查询日志
type QueryLog struct {
	ID        int       `json:"id" db:"id"`
	Keyword   string    `json:"keyword" db:"keyword"`
	Kind      string    `json:"kind" db:"kind"` // search / recommend
	IPHash    string    `json:"ip_hash" db:"ip_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"index"`
}

// TrendingKeyword 热门查询关键词
type TrendingKeyword struct {
	Keyword        string    `json:"keyword" db:"keyword" gorm:"primaryKey"`
	Count          int       `json:"count" db:"count"`
	LastSearchedAt time.Time `json:"last_searched_at" db:"last_searched_at"`
}
