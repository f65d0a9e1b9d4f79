package handler

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/scareclub/internal/model"
	"github.com/user/scareclub/internal/service"
	"github.com/user/scareclub/internal/utils"
)

// recommendQuery 推荐请求参数
type recommendQuery struct {
	TopN            int  `form:"top_n" binding:"omitempty,gte=1,lte=100"`
	FilterCoreGenre bool `form:"filter_core_genre"`
}

// Recommend 推荐接口
// GET /api/recommend/*title?top_n=20&filter_core_genre=false
func (h *Handler) Recommend(c *gin.Context) {
	title := strings.TrimPrefix(c.Param("title"), "/")
	if strings.TrimSpace(title) == "" {
		utils.BadRequest(c, "片名不能为空")
		return
	}

	var query recommendQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BadRequest(c, "参数不合法: "+err.Error())
		return
	}
	if query.TopN == 0 {
		query.TopN = h.Config.DefaultTopN
	}

	// 异步记录查询日志
	go h.logQuery(title, "recommend", c.ClientIP())

	cacheKey := fmt.Sprintf("recommend:%s:%d:%t",
		strings.ToLower(title), query.TopN, query.FilterCoreGenre)

	if cached, found := utils.CacheGet(cacheKey); found {
		if payload, ok := cached.(gin.H); ok {
			c.JSON(http.StatusOK, payload)
			return
		}
	}

	// singleflight 折叠并发的相同请求；推荐本身是纯函数，重复算只是浪费
	val, err, _ := h.sf.Do(cacheKey, func() (interface{}, error) {
		rec, err := h.Engine.Recommend(title, query.TopN, query.FilterCoreGenre)
		if err != nil {
			return nil, err
		}
		return h.buildRecommendPayload(rec, query.FilterCoreGenre), nil
	})
	if err != nil {
		var notFound *service.NotFoundError
		if errors.As(err, &notFound) {
			utils.NotFound(c, notFound.Error())
			return
		}
		log.Printf("[API] 推荐计算失败 (%s): %v", title, err)
		utils.InternalServerError(c, "")
		return
	}

	payload := val.(gin.H)
	utils.CacheSet(cacheKey, payload, 1*time.Hour)
	c.JSON(http.StatusOK, payload)
}

// buildRecommendPayload 组装推荐响应（分数保留 4 位小数便于展示）
func (h *Handler) buildRecommendPayload(rec *model.Recommendation, filtered bool) gin.H {
	results := make([]gin.H, 0, len(rec.Entries))
	for _, entry := range rec.Entries {
		results = append(results, gin.H{
			"movie_id":           entry.MovieID,
			"title":              entry.Title,
			"year":               entry.Year,
			"hybrid_score":       round4(entry.HybridScore),
			"user_overlap_count": entry.UserOverlapCount,
			"content_similarity": round4(entry.ContentSimilarity),
			"method":             entry.Method,
			"movie":              entry.Movie,
		})
	}

	userWeight, contentWeight := 0.0, 1.0
	if rec.Method == model.MethodHybrid {
		userWeight = h.Config.UserWeight
		contentWeight = h.Config.ContentWeight
	}

	payload := gin.H{
		"movie": gin.H{
			"movie":         rec.Movie,
			"review_count":  h.Engine.ReviewerCountOf(rec.Movie.ID),
			"has_reviews":   h.Engine.HasReviews(rec.Movie.ID),
			"club_position": h.Engine.ClubPosition(rec.Movie.ID),
		},
		"results": results,
		"method":  rec.Method,
		"weights": gin.H{
			"user_overlap":       userWeight,
			"content_similarity": contentWeight,
		},
		"filter_core_genre": filtered,
	}
	if rec.Degenerate {
		// 有影评但所有候选都被内容过滤剔除，退化为纯内容排序
		payload["note"] = "post-filter fallback"
	}
	return payload
}

// Search 片名搜索
// GET /api/search?q=&limit=20
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	limit := parseLimit(c.Query("limit"), h.Config.DefaultTopN)

	if strings.TrimSpace(query) != "" {
		go h.logQuery(query, "search", c.ClientIP())
	}

	results := h.Engine.Search(query, limit)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Movies 全部电影列表（影评数降序）
// GET /api/movies
func (h *Handler) Movies(c *gin.Context) {
	cacheKey := "movies:all"
	if cached, found := utils.CacheGet(cacheKey); found {
		if summaries, ok := cached.([]model.MovieSummary); ok {
			c.JSON(http.StatusOK, gin.H{"movies": summaries})
			return
		}
	}

	summaries := h.Engine.AllMovies()
	utils.CacheSet(cacheKey, summaries, 1*time.Hour)
	c.JSON(http.StatusOK, gin.H{"movies": summaries})
}

// MovieInfo 单部电影详情
// GET /api/movies/info?title=
func (h *Handler) MovieInfo(c *gin.Context) {
	title := c.Query("title")
	if strings.TrimSpace(title) == "" {
		utils.BadRequest(c, "片名不能为空")
		return
	}

	movie, err := h.Engine.MovieInfo(title)
	if err != nil {
		var notFound *service.NotFoundError
		if errors.As(err, &notFound) {
			utils.NotFound(c, notFound.Error())
			return
		}
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movie":         movie,
		"review_count":  h.Engine.ReviewerCountOf(movie.ID),
		"has_reviews":   h.Engine.HasReviews(movie.ID),
		"club_position": h.Engine.ClubPosition(movie.ID),
	})
}

// Popular 影评最多的电影
// GET /api/popular?limit=30
func (h *Handler) Popular(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 30)
	c.JSON(http.StatusOK, gin.H{"movies": h.Engine.Popular(limit)})
}

// Stats 数据集统计
// GET /api/stats
func (h *Handler) Stats(c *gin.Context) {
	stats := h.Engine.Stats()
	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
		"algorithm": fmt.Sprintf(
			"混合推荐，有影评时 %.0f%% 用户重合 + %.0f%% 内容相似，无影评时纯内容兜底",
			h.Config.UserWeight*100, h.Config.ContentWeight*100),
	})
}

// Trending 最近 24 小时的热门查询
// GET /api/trending?limit=10
func (h *Handler) Trending(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 10)
	keywords, err := h.Repos.QueryLog.GetTrending(24, limit)
	if err != nil {
		log.Printf("[API] 获取热门查询失败: %v", err)
		keywords = nil
	}
	c.JSON(http.StatusOK, gin.H{"trending": keywords})
}

// logQuery 记录查询日志（失败只打日志，不影响请求）
func (h *Handler) logQuery(keyword, kind, ip string) {
	if err := h.Repos.QueryLog.Log(keyword, kind, utils.HashIP(ip)); err != nil {
		log.Printf("[API] 记录查询日志失败: %v", err)
	}
}

func parseLimit(raw string, defaultValue int) int {
	if raw == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
		return n
	}
	return defaultValue
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
