package service

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/user/scareclub/internal/config"
	"github.com/user/scareclub/internal/model"
)

// ErrEmptyUniverse 源数据为空，索引无法构建（启动期致命错误）
var ErrEmptyUniverse = errors.New("电影宇宙为空，无法构建推荐索引")

// NotFoundError 请求的片名不在宇宙中
type NotFoundError struct {
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("电影 %q 不在片库中", e.Title)
}

// Store 推荐引擎消费的只读数据源
type Store interface {
	ListMovies() ([]model.Movie, error)
	ListClubWatches() ([]model.ClubWatch, error)
	ListReviews() ([]model.Review, error)
}

// Engine 推荐引擎会话
// 启动时构建一次，之后全程只读，任意数量的请求可以并发查询
type Engine struct {
	movies        map[int]*model.Movie
	ordered       []*model.Movie   // 按 ID 升序
	titleIndex    map[string][]int // 小写片名 → 电影 ID（升序）
	clubPositions map[int]int      // 电影 ID → 俱乐部观影顺序

	content *ContentIndex
	overlap *OverlapIndex

	userWeight    float64
	contentWeight float64
	minSimilarity float64
	defaultTopN   int
}

// NewEngine 从数据源构建推荐引擎
// 任何读取或构建失败都直接返回错误，进程不提供部分索引的降级模式
func NewEngine(store Store, cfg *config.Config) (*Engine, error) {
	start := time.Now()

	movies, err := store.ListMovies()
	if err != nil {
		return nil, fmt.Errorf("读取电影宇宙失败: %w", err)
	}
	if len(movies) == 0 {
		return nil, ErrEmptyUniverse
	}

	reviews, err := store.ListReviews()
	if err != nil {
		return nil, fmt.Errorf("读取影评失败: %w", err)
	}

	watches, err := store.ListClubWatches()
	if err != nil {
		return nil, fmt.Errorf("读取俱乐部片单失败: %w", err)
	}

	e := &Engine{
		movies:        make(map[int]*model.Movie, len(movies)),
		ordered:       make([]*model.Movie, 0, len(movies)),
		titleIndex:    make(map[string][]int, len(movies)),
		clubPositions: make(map[int]int, len(watches)),
		userWeight:    cfg.UserWeight,
		contentWeight: cfg.ContentWeight,
		minSimilarity: cfg.MinSimilarity,
		defaultTopN:   cfg.DefaultTopN,
	}

	for i := range movies {
		m := &movies[i]
		e.movies[m.ID] = m
		e.ordered = append(e.ordered, m)
		key := strings.ToLower(strings.TrimSpace(m.Title))
		e.titleIndex[key] = append(e.titleIndex[key], m.ID)
	}
	sort.Slice(e.ordered, func(i, j int) bool { return e.ordered[i].ID < e.ordered[j].ID })
	for _, ids := range e.titleIndex {
		sort.Ints(ids)
	}

	for _, w := range watches {
		e.clubPositions[w.MovieID] = w.Position
	}

	builder := NewFeatureBuilder(cfg.CastLimit)
	e.content = NewContentIndex(builder.BuildAll(movies), cfg.MaxFeatures)
	e.overlap = NewOverlapIndex(reviews)

	log.Printf("[Engine] 索引构建完成: %d 部电影, %d 部有影评, %d 位评论者, 耗时 %v",
		len(movies), e.overlap.ReviewedMovieCount(), e.overlap.ReviewerCount(), time.Since(start))

	return e, nil
}

// resolve 把片名解析为唯一一部电影（大小写不敏感的精确匹配）
// 同名不同年的电影取 ID 最小者，返回的元数据带年份，调用方可据此消歧
func (e *Engine) resolve(title string) (*model.Movie, error) {
	key := strings.ToLower(strings.TrimSpace(title))
	ids := e.titleIndex[key]
	if len(ids) == 0 {
		return nil, &NotFoundError{Title: title}
	}
	return e.movies[ids[0]], nil
}

// Recommend 为指定片名生成推荐列表
// 有影评走混合打分，无影评走纯内容兜底；filterCoreGenre 在排序后过滤
func (e *Engine) Recommend(title string, topN int, filterCoreGenre bool) (*model.Recommendation, error) {
	if topN <= 0 {
		topN = e.defaultTopN
	}

	// Q1: 片名解析
	movie, err := e.resolve(title)
	if err != nil {
		return nil, err
	}

	// Q2: 分支条件只计算一次，不用错误驱动兜底
	if !e.overlap.HasReviews(movie.ID) {
		return e.contentOnly(movie, topN, filterCoreGenre, false), nil
	}

	reviewerCount := e.overlap.ReviewerCountOf(movie.ID)
	coCounts := e.overlap.CoReviewedCounts(movie.ID)

	entries := make([]model.RankedEntry, 0, len(coCounts))
	for candidateID, shared := range coCounts {
		candidate, ok := e.movies[candidateID]
		if !ok {
			continue
		}

		contentScore := e.content.Similarity(movie.ID, candidateID)
		// 硬过滤：剔除只有评论者巧合重合、内容毫无关联的候选
		if contentScore < e.minSimilarity {
			continue
		}

		userScore := float64(shared) / float64(reviewerCount)
		entries = append(entries, model.RankedEntry{
			MovieID:           candidateID,
			Title:             candidate.Title,
			Year:              candidate.Year,
			HybridScore:       e.userWeight*userScore + e.contentWeight*contentScore,
			UserOverlapCount:  shared,
			ContentSimilarity: contentScore,
			Method:            model.MethodHybrid,
			Movie:             candidate,
		})
	}

	// 有影评但没有候选通过内容过滤：退化为纯内容排序，不算错误
	if len(entries) == 0 {
		return e.contentOnly(movie, topN, filterCoreGenre, true), nil
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].HybridScore != entries[j].HybridScore {
			return entries[i].HybridScore > entries[j].HybridScore
		}
		if entries[i].ContentSimilarity != entries[j].ContentSimilarity {
			return entries[i].ContentSimilarity > entries[j].ContentSimilarity
		}
		return entries[i].MovieID < entries[j].MovieID
	})

	entries = e.applyGenreFilter(entries, filterCoreGenre)
	if len(entries) > topN {
		entries = entries[:topN]
	}

	return &model.Recommendation{
		Movie:   movie,
		Entries: entries,
		Method:  model.MethodHybrid,
	}, nil
}

// contentOnly 纯内容相似兜底
// 在完整排序上做类型过滤后再截断，保证过滤后仍能补足到 topN
func (e *Engine) contentOnly(movie *model.Movie, topN int, filterCoreGenre, degenerate bool) *model.Recommendation {
	row := e.content.RankAll(movie.ID)

	entries := make([]model.RankedEntry, 0, len(row))
	for _, scored := range row {
		candidate, ok := e.movies[scored.MovieID]
		if !ok {
			continue
		}
		entries = append(entries, model.RankedEntry{
			MovieID:           scored.MovieID,
			Title:             candidate.Title,
			Year:              candidate.Year,
			HybridScore:       scored.Score,
			UserOverlapCount:  0,
			ContentSimilarity: scored.Score,
			Method:            model.MethodContentOnly,
			Movie:             candidate,
		})
	}

	entries = e.applyGenreFilter(entries, filterCoreGenre)
	if len(entries) > topN {
		entries = entries[:topN]
	}

	return &model.Recommendation{
		Movie:      movie,
		Entries:    entries,
		Method:     model.MethodContentOnly,
		Degenerate: degenerate,
	}
}

// applyGenreFilter 排序后的类型过滤：只删除不改变幸存者的相对顺序
// 结果不足 topN 时允许欠额返回，不算失败
func (e *Engine) applyGenreFilter(entries []model.RankedEntry, enabled bool) []model.RankedEntry {
	if !enabled {
		return entries
	}
	filtered := make([]model.RankedEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Movie != nil && entry.Movie.IsCoreGenre {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// Search 按片名大小写不敏感子串搜索
// 空查询返回空列表；结果按影评数降序，同数按片名升序
func (e *Engine) Search(query string, limit int) []model.MovieSummary {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []model.MovieSummary{}
	}
	if limit <= 0 {
		limit = e.defaultTopN
	}

	matches := make([]model.MovieSummary, 0, limit)
	for _, m := range e.ordered {
		if strings.Contains(strings.ToLower(m.Title), query) {
			matches = append(matches, e.summarize(m))
		}
	}

	sortSummaries(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// MovieInfo 按片名取单部电影元数据
func (e *Engine) MovieInfo(title string) (*model.Movie, error) {
	return e.resolve(title)
}

// ReviewerCountOf 某部电影的评论者人数（展示用）
func (e *Engine) ReviewerCountOf(movieID int) int {
	return e.overlap.ReviewerCountOf(movieID)
}

// HasReviews 某部电影是否有影评
func (e *Engine) HasReviews(movieID int) bool {
	return e.overlap.HasReviews(movieID)
}

// ClubPosition 俱乐部观影顺序（不在片单返回 0）
func (e *Engine) ClubPosition(movieID int) int {
	return e.clubPositions[movieID]
}

// AllMovies 全部电影摘要，按影评数降序、片名升序
func (e *Engine) AllMovies() []model.MovieSummary {
	summaries := make([]model.MovieSummary, 0, len(e.ordered))
	for _, m := range e.ordered {
		summaries = append(summaries, e.summarize(m))
	}
	sortSummaries(summaries)
	return summaries
}

// Popular 影评最多的前 limit 部电影
func (e *Engine) Popular(limit int) []model.MovieSummary {
	if limit <= 0 {
		limit = 30
	}
	summaries := make([]model.MovieSummary, 0, e.overlap.ReviewedMovieCount())
	for _, m := range e.ordered {
		if e.overlap.HasReviews(m.ID) {
			summaries = append(summaries, e.summarize(m))
		}
	}
	sortSummaries(summaries)
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries
}

// Stats 数据集统计
func (e *Engine) Stats() model.Stats {
	coreGenreCount := 0
	for _, m := range e.ordered {
		if m.IsCoreGenre {
			coreGenreCount++
		}
	}

	universe := len(e.ordered)
	reviewed := e.overlap.ReviewedMovieCount()
	coverage := 0.0
	if universe > 0 {
		coverage = float64(reviewed) / float64(universe) * 100
	}

	return model.Stats{
		UniverseSize:   universe,
		ReviewedCount:  reviewed,
		ReviewerCount:  e.overlap.ReviewerCount(),
		ReviewTotal:    e.overlap.ReviewTotal(),
		ClubCount:      len(e.clubPositions),
		CoreGenreCount: coreGenreCount,
		Coverage:       coverage,
	}
}

// summarize 生成电影摘要，影评数以重合索引为准
func (e *Engine) summarize(m *model.Movie) model.MovieSummary {
	return model.MovieSummary{
		ID:          m.ID,
		Title:       m.Title,
		Year:        m.Year,
		Director:    m.Director,
		Genres:      m.Genres,
		DataSource:  m.DataSource,
		IsCoreGenre: m.IsCoreGenre,
		ReviewCount: e.overlap.ReviewerCountOf(m.ID),
		PosterURL:   m.PosterURL,
		Rating:      m.Rating,
	}
}

// sortSummaries 影评数降序，同数按片名升序，再按 ID 升序兜底
func sortSummaries(summaries []model.MovieSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].ReviewCount != summaries[j].ReviewCount {
			return summaries[i].ReviewCount > summaries[j].ReviewCount
		}
		if summaries[i].Title != summaries[j].Title {
			return summaries[i].Title < summaries[j].Title
		}
		return summaries[i].ID < summaries[j].ID
	})
}
