package main

import (
	"flag"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/user/scareclub/internal/config"
	"github.com/user/scareclub/internal/ingest"
	"github.com/user/scareclub/internal/repository"
)

var reSlugJunk = regexp.MustCompile(`[^a-z0-9]+`)

// 离线数据补全工具：
//
//	ingest -tmdb     从 TMDB 回填缺失的导演/类型/演员
//	ingest -reviews  抓取片单电影的 Letterboxd 影评
//	ingest -recount  重算 movies.review_count
func main() {
	tmdbFlag := flag.Bool("tmdb", false, "从 TMDB 回填缺失的元数据")
	reviewsFlag := flag.Bool("reviews", false, "抓取片单电影的 Letterboxd 影评")
	recountFlag := flag.Bool("recount", false, "重算每部电影的影评数")
	flag.Parse()

	if !*tmdbFlag && !*reviewsFlag && !*recountFlag {
		flag.Usage()
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}
	cfg := config.Load()

	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	repos := repository.NewRepositories(db)

	if *tmdbFlag {
		runTMDBBackfill(repos, cfg)
	}
	if *reviewsFlag {
		runReviewCrawl(repos)
	}
	if *recountFlag {
		runRecount(repos)
	}
}

func runTMDBBackfill(repos *repository.Repositories, cfg *config.Config) {
	if cfg.TMDBToken == "" {
		log.Fatal("[Ingest] 缺少 TMDB_TOKEN，无法回填元数据")
	}
	syncer := ingest.NewTMDBSyncer(repos.Movie, cfg)
	if err := syncer.BackfillMissing(); err != nil {
		log.Fatalf("[Ingest] TMDB 回填失败: %v", err)
	}
	log.Println("[Ingest] TMDB 元数据回填完成")
}

// runReviewCrawl 只抓片单里的电影，语料库电影不需要影评
func runReviewCrawl(repos *repository.Repositories) {
	watches, err := repos.ClubWatch.ListAll()
	if err != nil {
		log.Fatalf("[Ingest] 读取片单失败: %v", err)
	}

	crawler := ingest.NewLetterboxdCrawler(repos.Movie, repos.Review)
	total := 0
	for _, watch := range watches {
		movie, err := repos.Movie.FindByID(watch.MovieID)
		if err != nil {
			log.Printf("[Ingest] 跳过片单电影 %d: %v", watch.MovieID, err)
			continue
		}

		count, err := crawler.CrawlMovieReviews(movie.ID, slugFromTitle(movie.Title, movie.Year))
		if err != nil {
			log.Printf("[Ingest] 抓取 %q 影评失败: %v", movie.Title, err)
			continue
		}
		log.Printf("[Ingest] %q 抓取 %d 条影评", movie.Title, count)
		total += count
	}
	log.Printf("[Ingest] 影评抓取完成，共 %d 条", total)

	runRecount(repos)
}

func runRecount(repos *repository.Repositories) {
	affected, err := repos.Movie.RefreshReviewCounts()
	if err != nil {
		log.Fatalf("[Ingest] 重算影评数失败: %v", err)
	}
	log.Printf("[Ingest] 影评数重算完成，更新 %d 部电影", affected)
}

// slugFromTitle 近似 Letterboxd 的 URL slug：同名电影带年份后缀
func slugFromTitle(title string, year int) string {
	slug := strings.ToLower(title)
	slug = reSlugJunk.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if year > 0 {
		return slug + "-" + strconv.Itoa(year)
	}
	return slug
}
