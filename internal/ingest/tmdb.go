package ingest

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/user/scareclub/internal/config"
	"github.com/user/scareclub/internal/model"
	"github.com/user/scareclub/internal/repository"
	"github.com/user/scareclub/internal/utils"
	"golang.org/x/sync/singleflight"
)

// TMDBSyncer 从 TMDB 补全电影元数据（一次性离线任务，服务进程不调用）
type TMDBSyncer struct {
	movieRepo *repository.MovieRepository
	config    *config.Config
	group     singleflight.Group
}

func NewTMDBSyncer(repo *repository.MovieRepository, cfg *config.Config) *TMDBSyncer {
	return &TMDBSyncer{
		movieRepo: repo,
		config:    cfg,
	}
}

type tmdbDetailsResponse struct {
	ID          int64   `json:"id"`
	IMDbID      string  `json:"imdb_id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type tmdbCreditsResponse struct {
	Cast []struct {
		Name  string `json:"name"`
		Order int    `json:"order"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

// BackfillMissing 为缺失导演/类型/演员的电影补全元数据
func (s *TMDBSyncer) BackfillMissing() error {
	movies, err := s.movieRepo.ListMissingMetadata()
	if err != nil {
		return fmt.Errorf("查找待补全电影失败: %w", err)
	}

	log.Printf("[TMDB] 共 %d 部电影待补全", len(movies))

	for i := range movies {
		movie := &movies[i]
		if movie.TMDBID == nil {
			continue
		}
		if err := s.SyncMovie(movie); err != nil {
			log.Printf("[TMDB] 补全失败 (ID: %d, TMDB: %d): %v", movie.ID, *movie.TMDBID, err)
			continue
		}
		// 随机延迟，避免请求过频
		time.Sleep(time.Duration(200+(time.Now().UnixNano()%800)) * time.Millisecond)
	}
	return nil
}

// SyncMovie 抓取单部电影的详情与演职员表并入库
func (s *TMDBSyncer) SyncMovie(movie *model.Movie) error {
	// 使用 singleflight 避免并发重复抓取
	key := strconv.FormatInt(*movie.TMDBID, 10)
	_, err, _ := s.group.Do(key, func() (interface{}, error) {
		return nil, s.syncMovieInternal(movie)
	})
	return err
}

func (s *TMDBSyncer) syncMovieInternal(movie *model.Movie) error {
	details, err := s.fetchDetails(*movie.TMDBID)
	if err != nil {
		return fmt.Errorf("获取详情失败: %w", err)
	}

	credits, err := s.fetchCredits(*movie.TMDBID)
	if err != nil {
		log.Printf("[TMDB] 获取演职员表失败 (TMDB: %d): %v", *movie.TMDBID, err)
	}

	s.applyTMDBData(movie, details, credits)

	if err := s.movieRepo.Upsert(movie); err != nil {
		return fmt.Errorf("保存电影失败: %w", err)
	}
	return nil
}

func (s *TMDBSyncer) fetchDetails(tmdbID int64) (*tmdbDetailsResponse, error) {
	url := fmt.Sprintf("https://api.themoviedb.org/3/movie/%d?language=en-US", tmdbID)
	var result tmdbDetailsResponse
	if err := s.getJSON(url, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *TMDBSyncer) fetchCredits(tmdbID int64) (*tmdbCreditsResponse, error) {
	url := fmt.Sprintf("https://api.themoviedb.org/3/movie/%d/credits?language=en-US", tmdbID)
	var result tmdbCreditsResponse
	if err := s.getJSON(url, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *TMDBSyncer) getJSON(url string, target interface{}) error {
	req, _ := http.NewRequest("GET", url, nil)
	req.Header.Set("Authorization", "Bearer "+s.config.TMDBToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("请求失败，状态码: %d", resp.StatusCode)
	}
	return utils.DecodeJSON(resp, target)
}

// applyTMDBData 只补全缺失字段，已有数据不覆盖
func (s *TMDBSyncer) applyTMDBData(movie *model.Movie, details *tmdbDetailsResponse, credits *tmdbCreditsResponse) {
	if details != nil {
		if movie.IMDbID == "" {
			movie.IMDbID = details.IMDbID
		}
		if movie.Overview == "" {
			movie.Overview = details.Overview
		}
		if movie.Year == 0 && len(details.ReleaseDate) >= 4 {
			if year, err := strconv.Atoi(details.ReleaseDate[:4]); err == nil {
				movie.Year = year
			}
		}
		if movie.Rating == 0 {
			movie.Rating = details.VoteAverage
		}
		if movie.PosterURL == "" && details.PosterPath != "" {
			movie.PosterURL = "https://image.tmdb.org/t/p/w500" + details.PosterPath
		}
		if len(movie.Genres) == 0 && len(details.Genres) > 0 {
			for _, g := range details.Genres {
				movie.Genres = append(movie.Genres, g.Name)
			}
		}
	}

	if credits != nil {
		if movie.Director == "" {
			for _, crew := range credits.Crew {
				if crew.Job == "Director" {
					if movie.Director != "" {
						movie.Director += ", "
					}
					movie.Director += crew.Name
				}
			}
		}
		if len(movie.Cast) == 0 {
			// TMDB 返回已按出演顺序排序，取前 K 位
			limit := s.config.CastLimit
			for _, member := range credits.Cast {
				if len(movie.Cast) >= limit {
					break
				}
				movie.Cast = append(movie.Cast, member.Name)
			}
		}
	}

	// 类型补全后刷新核心类型标记
	movie.IsCoreGenre = false
	for _, genre := range movie.Genres {
		if genre == s.config.CoreGenre {
			movie.IsCoreGenre = true
			break
		}
	}
}
