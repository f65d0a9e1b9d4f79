package ingest

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/scareclub/internal/model"
	"github.com/user/scareclub/internal/repository"
	"github.com/user/scareclub/internal/utils"
	"golang.org/x/sync/singleflight"
)

// LetterboxdCrawler 抓取 Letterboxd 影评页（一次性离线任务）
type LetterboxdCrawler struct {
	movieRepo  *repository.MovieRepository
	reviewRepo *repository.ReviewRepository
	client     *utils.HTTPClient
	sf         singleflight.Group // 防止并发重复抓取同一电影
	maxPages   int
}

// NewLetterboxdCrawler 创建影评爬虫
func NewLetterboxdCrawler(movieRepo *repository.MovieRepository, reviewRepo *repository.ReviewRepository) *LetterboxdCrawler {
	return &LetterboxdCrawler{
		movieRepo:  movieRepo,
		reviewRepo: reviewRepo,
		client:     utils.NewHTTPClient(),
		maxPages:   5,
	}
}

// CrawlMovieReviews 抓取一部电影的影评并入库，返回新写入的条数
// slug 是 Letterboxd 片名标识（如 "bad-ben"）
func (c *LetterboxdCrawler) CrawlMovieReviews(movieID int, slug string) (int, error) {
	val, err, _ := c.sf.Do(slug, func() (interface{}, error) {
		return c.crawlInternal(movieID, slug)
	})
	if err != nil {
		return 0, err
	}
	return val.(int), nil
}

func (c *LetterboxdCrawler) crawlInternal(movieID int, slug string) (int, error) {
	saved := 0
	for page := 1; page <= c.maxPages; page++ {
		url := fmt.Sprintf("https://letterboxd.com/film/%s/reviews/by/activity/page/%d/", slug, page)
		doc, err := c.client.GetDocument(url)
		if err != nil {
			if page == 1 {
				return saved, fmt.Errorf("抓取影评页失败: %w", err)
			}
			// 后续页失败只记录，已有数据照常入库
			log.Printf("[Letterboxd] 第 %d 页抓取失败 (%s): %v", page, slug, err)
			break
		}

		reviews := c.parseReviews(doc, movieID)
		if len(reviews) == 0 {
			break
		}

		for i := range reviews {
			if err := c.reviewRepo.Upsert(&reviews[i]); err != nil {
				log.Printf("[Letterboxd] 影评入库失败 (%s/%s): %v", slug, reviews[i].Reviewer, err)
				continue
			}
			saved++
		}

		// 随机延迟，压低抓取频率
		time.Sleep(time.Duration(500+rand.Intn(1000)) * time.Millisecond)
	}
	return saved, nil
}

// parseReviews 从影评列表页解析 (评论者, 正文, 点赞数)
func (c *LetterboxdCrawler) parseReviews(doc *goquery.Document, movieID int) []model.Review {
	var reviews []model.Review

	doc.Find("li.film-detail").Each(func(_ int, sel *goquery.Selection) {
		reviewer := strings.TrimSpace(sel.Find("strong.name").First().Text())
		if reviewer == "" {
			// 部分页面把用户名放在头像链接上
			if href, ok := sel.Find("a.avatar").Attr("href"); ok {
				reviewer = strings.Trim(href, "/")
			}
		}
		if reviewer == "" {
			return
		}

		text := strings.TrimSpace(sel.Find("div.body-text").Text())

		likes := 0
		likesText := strings.TrimSpace(sel.Find("p.like-link-target").AttrOr("data-count", ""))
		if likesText != "" {
			if n, err := strconv.Atoi(likesText); err == nil {
				likes = n
			}
		}

		reviews = append(reviews, model.Review{
			MovieID:    movieID,
			Reviewer:   reviewer,
			ReviewText: text,
			Likes:      likes,
		})
	})

	return reviews
}
