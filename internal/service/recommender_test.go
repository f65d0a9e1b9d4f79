package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/user/scareclub/internal/config"
	"github.com/user/scareclub/internal/model"
)

// fakeStore 内存数据源，测试不碰数据库
type fakeStore struct {
	movies  []model.Movie
	watches []model.ClubWatch
	reviews []model.Review
	err     error
}

func (s *fakeStore) ListMovies() ([]model.Movie, error) { return s.movies, s.err }

func (s *fakeStore) ListClubWatches() ([]model.ClubWatch, error) { return s.watches, s.err }

func (s *fakeStore) ListReviews() ([]model.Review, error) { return s.reviews, s.err }

func testConfig() *config.Config {
	return &config.Config{
		CoreGenre:     "Horror",
		CastLimit:     10,
		MaxFeatures:   1000,
		UserWeight:    0.7,
		ContentWeight: 0.3,
		MinSimilarity: 0.05,
		DefaultTopN:   20,
	}
}

func newMovie(id int, title string, year int, director string, genres, cast []string, core bool) model.Movie {
	return model.Movie{
		ID:          id,
		Title:       title,
		Year:        year,
		Director:    director,
		Genres:      genres,
		Cast:        cast,
		IsCoreGenre: core,
	}
}

// testStore 固定的小宇宙：
//
//	1 Halloween / 2 The Fog / 3 The Thing (1982) 都是 Carpenter 恐怖片
//	4 Heat 是与恐怖片毫无内容关联的犯罪片
//	5 Scream 与 Halloween 共享 Horror+Thriller
//	6 Solaris 与 Heat 共享 Drama
//	7 The Thing (2011) 与 3 同名
//	8 Mystery Reel 元数据全空
func testStore() *fakeStore {
	return &fakeStore{
		movies: []model.Movie{
			newMovie(1, "Halloween", 1978, "John Carpenter", []string{"Horror", "Thriller"}, []string{"Jamie Lee Curtis", "Donald Pleasence"}, true),
			newMovie(2, "The Fog", 1980, "John Carpenter", []string{"Horror"}, []string{"Jamie Lee Curtis"}, true),
			newMovie(3, "The Thing", 1982, "John Carpenter", []string{"Horror", "Sci-Fi"}, []string{"Kurt Russell"}, true),
			newMovie(4, "Heat", 1995, "Michael Mann", []string{"Crime", "Drama"}, []string{"Al Pacino", "Robert De Niro"}, false),
			newMovie(5, "Scream", 1996, "Wes Craven", []string{"Horror", "Thriller"}, []string{"Neve Campbell"}, true),
			newMovie(6, "Solaris", 1972, "Andrei Tarkovsky", []string{"Sci-Fi", "Drama"}, []string{"Donatas Banionis"}, false),
			newMovie(7, "The Thing", 2011, "Matthijs van Heijningen Jr.", []string{"Horror"}, []string{"Mary Elizabeth Winstead"}, true),
			newMovie(8, "Mystery Reel", 0, "", nil, nil, false),
		},
		watches: []model.ClubWatch{
			{MovieID: 1, Position: 1},
			{MovieID: 2, Position: 2},
		},
		reviews: []model.Review{
			{MovieID: 1, Reviewer: "alice"},
			{MovieID: 1, Reviewer: "bob"},
			{MovieID: 2, Reviewer: "alice"},
			{MovieID: 2, Reviewer: "bob"},
			{MovieID: 4, Reviewer: "alice"},
			{MovieID: 5, Reviewer: "bob"},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(testStore(), testConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestNewEngineEmptyUniverse(t *testing.T) {
	_, err := NewEngine(&fakeStore{}, testConfig())
	if !errors.Is(err, ErrEmptyUniverse) {
		t.Fatalf("期望 ErrEmptyUniverse，得到 %v", err)
	}
}

func TestRecommendUnknownTitle(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Recommend("Nonexistent Movie", 10, false)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("期望 NotFoundError，得到 %v", err)
	}
	if notFound.Title != "Nonexistent Movie" {
		t.Errorf("错误应回显原始片名，得到 %q", notFound.Title)
	}
}

func TestRecommendHybrid(t *testing.T) {
	engine := newTestEngine(t)

	rec, err := engine.Recommend("Halloween", 10, false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if rec.Method != model.MethodHybrid {
		t.Fatalf("有影评的电影应走混合打分，得到 %q", rec.Method)
	}
	if rec.Degenerate {
		t.Error("有候选幸存时不应标记退化")
	}

	// Heat 与 alice 共同出现，但内容相似度为 0，必须被硬过滤剔除
	for _, entry := range rec.Entries {
		if entry.MovieID == 4 {
			t.Error("内容相似度低于阈值的候选不应出现")
		}
		if entry.MovieID == 1 {
			t.Error("查询电影自身不应出现在结果里")
		}
		if entry.ContentSimilarity < 0.05 {
			t.Errorf("电影 %d 相似度 %f 低于阈值仍被保留", entry.MovieID, entry.ContentSimilarity)
		}
		if entry.HybridScore < 0 || entry.HybridScore > 1 {
			t.Errorf("混合分 %f 超出 [0,1]", entry.HybridScore)
		}
		if entry.Method != model.MethodHybrid {
			t.Errorf("条目方法应为 hybrid，得到 %q", entry.Method)
		}
	}

	if len(rec.Entries) != 2 {
		t.Fatalf("期望 2 个候选（The Fog、Scream），得到 %d", len(rec.Entries))
	}
	if rec.Entries[0].MovieID != 2 {
		t.Errorf("The Fog 两位评论者全部重合，应排第一，得到 %d", rec.Entries[0].MovieID)
	}
	if rec.Entries[0].UserOverlapCount != 2 || rec.Entries[1].UserOverlapCount != 1 {
		t.Errorf("重合人数错误: %d, %d", rec.Entries[0].UserOverlapCount, rec.Entries[1].UserOverlapCount)
	}

	// 排序不变式：相邻两项分数不升
	for i := 1; i < len(rec.Entries); i++ {
		if rec.Entries[i].HybridScore > rec.Entries[i-1].HybridScore {
			t.Errorf("第 %d 项分数高于前一项", i)
		}
	}
}

func TestRecommendContentOnlyFallback(t *testing.T) {
	engine := newTestEngine(t)

	// The Thing (1982) 没有任何影评
	rec, err := engine.Recommend("The Thing", 10, false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if rec.Method != model.MethodContentOnly {
		t.Fatalf("无影评应走纯内容兜底，得到 %q", rec.Method)
	}
	if rec.Degenerate {
		t.Error("无影评的兜底不算退化查询")
	}
	if len(rec.Entries) == 0 {
		t.Fatal("同导演同类型的电影存在，结果不应为空")
	}

	for i, entry := range rec.Entries {
		if entry.UserOverlapCount != 0 {
			t.Errorf("纯内容条目的重合人数应为 0，得到 %d", entry.UserOverlapCount)
		}
		if entry.HybridScore != entry.ContentSimilarity {
			t.Errorf("纯内容模式下分数应等于相似度")
		}
		if entry.MovieID == 4 {
			t.Error("零相似度的电影不应出现")
		}
		if i > 0 && entry.HybridScore > rec.Entries[i-1].HybridScore {
			t.Errorf("第 %d 项分数高于前一项", i)
		}
	}
}

func TestRecommendDegenerateQuery(t *testing.T) {
	engine := newTestEngine(t)

	// Heat 有影评人 alice，但她看过的其他电影与 Heat 内容毫无关联
	rec, err := engine.Recommend("Heat", 10, false)
	if err != nil {
		t.Fatalf("退化查询不应报错: %v", err)
	}

	if rec.Method != model.MethodContentOnly {
		t.Fatalf("所有候选被过滤后应退化为纯内容，得到 %q", rec.Method)
	}
	if !rec.Degenerate {
		t.Error("有影评但零幸存候选应标记退化")
	}

	// 兜底仍按内容找得到 Solaris（共享 Drama）
	found := false
	for _, entry := range rec.Entries {
		if entry.MovieID == 6 {
			found = true
		}
	}
	if !found {
		t.Error("兜底结果应包含内容相关的 Solaris")
	}
}

func TestRecommendEmptyFeatures(t *testing.T) {
	engine := newTestEngine(t)

	rec, err := engine.Recommend("Mystery Reel", 10, false)
	if err != nil {
		t.Fatalf("元数据为空不是错误: %v", err)
	}
	if rec.Method != model.MethodContentOnly {
		t.Fatalf("期望纯内容兜底，得到 %q", rec.Method)
	}
	if len(rec.Entries) != 0 {
		t.Errorf("空特征文档与所有电影相似度为 0，结果应为空，得到 %d 项", len(rec.Entries))
	}
}

func TestRecommendGenreFilter(t *testing.T) {
	engine := newTestEngine(t)

	// Heat 的兜底结果里有非恐怖片 Solaris，开过滤后应消失且顺序不变
	unfiltered, err := engine.Recommend("Heat", 10, false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	filtered, err := engine.Recommend("Heat", 10, true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	for _, entry := range filtered.Entries {
		if entry.Movie == nil || !entry.Movie.IsCoreGenre {
			t.Errorf("过滤后仍有非核心类型电影 %d", entry.MovieID)
		}
	}

	// 过滤只删除，不重排：幸存者在未过滤结果中的相对顺序保持
	pos := make(map[int]int, len(unfiltered.Entries))
	for i, entry := range unfiltered.Entries {
		pos[entry.MovieID] = i
	}
	last := -1
	for _, entry := range filtered.Entries {
		p, ok := pos[entry.MovieID]
		if !ok {
			t.Fatalf("过滤结果出现了未过滤结果之外的电影 %d", entry.MovieID)
		}
		if p < last {
			t.Error("过滤改变了幸存者的相对顺序")
		}
		last = p
	}
}

func TestRecommendGenreFilterRefills(t *testing.T) {
	engine := newTestEngine(t)

	// 先过滤后截断：即使截断前的头部有非核心类型电影，
	// 核心类型候选也应补足到 topN
	rec, err := engine.Recommend("The Thing", 2, true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(rec.Entries) != 2 {
		t.Fatalf("核心类型候选足够时应补满 topN=2，得到 %d", len(rec.Entries))
	}
	for _, entry := range rec.Entries {
		if !entry.Movie.IsCoreGenre {
			t.Errorf("过滤后仍有非核心类型电影 %d", entry.MovieID)
		}
	}
}

func TestRecommendDeterministic(t *testing.T) {
	first := newTestEngine(t)
	second := newTestEngine(t)

	for _, title := range []string{"Halloween", "The Thing", "Heat"} {
		a, err := first.Recommend(title, 10, false)
		if err != nil {
			t.Fatalf("Recommend(%q): %v", title, err)
		}
		b, err := second.Recommend(title, 10, false)
		if err != nil {
			t.Fatalf("Recommend(%q): %v", title, err)
		}
		if !reflect.DeepEqual(entryKeys(a.Entries), entryKeys(b.Entries)) {
			t.Errorf("%q 两次重建的推荐结果不一致", title)
		}
	}
}

func entryKeys(entries []model.RankedEntry) []int {
	ids := make([]int, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.MovieID)
	}
	return ids
}

func TestResolveDuplicateTitle(t *testing.T) {
	engine := newTestEngine(t)

	// 两部 The Thing，取 ID 最小的 1982 版
	movie, err := engine.MovieInfo("the thing")
	if err != nil {
		t.Fatalf("MovieInfo: %v", err)
	}
	if movie.ID != 3 || movie.Year != 1982 {
		t.Errorf("同名电影应取 ID 最小者，得到 ID=%d Year=%d", movie.ID, movie.Year)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	engine := newTestEngine(t)

	for _, title := range []string{"halloween", "HALLOWEEN", "  Halloween  "} {
		movie, err := engine.MovieInfo(title)
		if err != nil {
			t.Fatalf("MovieInfo(%q): %v", title, err)
		}
		if movie.ID != 1 {
			t.Errorf("MovieInfo(%q) = %d，期望 1", title, movie.ID)
		}
	}
}

func TestSearch(t *testing.T) {
	engine := newTestEngine(t)

	if got := engine.Search("", 10); len(got) != 0 {
		t.Errorf("空查询应返回空列表，得到 %d 项", len(got))
	}
	if got := engine.Search("   ", 10); len(got) != 0 {
		t.Errorf("纯空白查询应返回空列表，得到 %d 项", len(got))
	}

	results := engine.Search("THING", 10)
	if len(results) != 2 {
		t.Fatalf("期望两部 The Thing，得到 %d", len(results))
	}
	// 影评数和片名都相同，按 ID 升序兜底
	if results[0].ID != 3 || results[1].ID != 7 {
		t.Errorf("同名同影评数应按 ID 升序: %d, %d", results[0].ID, results[1].ID)
	}

	if got := engine.Search("halloween", 10); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("子串搜索应大小写不敏感: %+v", got)
	}
}

func TestPopular(t *testing.T) {
	engine := newTestEngine(t)

	popular := engine.Popular(10)
	want := []int{1, 2, 4, 5} // 影评数降序，同数片名升序
	got := make([]int, 0, len(popular))
	for _, summary := range popular {
		got = append(got, summary.ID)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Popular = %v，期望 %v", got, want)
	}

	if limited := engine.Popular(2); len(limited) != 2 {
		t.Errorf("limit=2 应截断到 2 项，得到 %d", len(limited))
	}
}

func TestStats(t *testing.T) {
	engine := newTestEngine(t)

	stats := engine.Stats()
	if stats.UniverseSize != 8 {
		t.Errorf("UniverseSize = %d，期望 8", stats.UniverseSize)
	}
	if stats.ReviewedCount != 4 {
		t.Errorf("ReviewedCount = %d，期望 4", stats.ReviewedCount)
	}
	if stats.ReviewerCount != 2 {
		t.Errorf("ReviewerCount = %d，期望 2", stats.ReviewerCount)
	}
	if stats.ReviewTotal != 6 {
		t.Errorf("ReviewTotal = %d，期望 6", stats.ReviewTotal)
	}
	if stats.ClubCount != 2 {
		t.Errorf("ClubCount = %d，期望 2", stats.ClubCount)
	}
	if stats.CoreGenreCount != 5 {
		t.Errorf("CoreGenreCount = %d，期望 5", stats.CoreGenreCount)
	}
	if stats.Coverage != 50.0 {
		t.Errorf("Coverage = %f，期望 50", stats.Coverage)
	}
}

func TestClubPosition(t *testing.T) {
	engine := newTestEngine(t)

	if got := engine.ClubPosition(1); got != 1 {
		t.Errorf("ClubPosition(1) = %d，期望 1", got)
	}
	if got := engine.ClubPosition(3); got != 0 {
		t.Errorf("不在片单的电影应返回 0，得到 %d", got)
	}
}
