package repository

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/user/scareclub/internal/model"
	"gorm.io/gorm"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

const movieColumns = `id, tmdb_id, imdb_id, title, year, director, genres, "cast",
	overview, data_source, is_core_genre, review_count, rating, poster_url, updated_at`

// scanMovie 扫描单行电影记录（text[] 列用 pq.Array 解析）
func scanMovie(scan func(dest ...interface{}) error) (*model.Movie, error) {
	var movie model.Movie
	err := scan(
		&movie.ID, &movie.TMDBID, &movie.IMDbID, &movie.Title, &movie.Year,
		&movie.Director, pq.Array(&movie.Genres), pq.Array(&movie.Cast),
		&movie.Overview, &movie.DataSource, &movie.IsCoreGenre,
		&movie.ReviewCount, &movie.Rating, &movie.PosterURL, &movie.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// ListAll 读取整个电影宇宙（启动时构建索引用）
func (r *MovieRepository) ListAll() ([]model.Movie, error) {
	rows, err := r.db.Raw(`SELECT ` + movieColumns + ` FROM movies ORDER BY id`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []model.Movie
	for rows.Next() {
		movie, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	return movies, rows.Err()
}

// FindByID 根据 ID 查找电影
func (r *MovieRepository) FindByID(id int) (*model.Movie, error) {
	row := r.db.Raw(`SELECT `+movieColumns+` FROM movies WHERE id = $1`, id).Row()
	movie, err := scanMovie(row.Scan)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	return movie, nil
}

// FindByTMDBID 根据 TMDB ID 查找电影
func (r *MovieRepository) FindByTMDBID(tmdbID int64) (*model.Movie, error) {
	row := r.db.Raw(`SELECT `+movieColumns+` FROM movies WHERE tmdb_id = $1`, tmdbID).Row()
	movie, err := scanMovie(row.Scan)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	return movie, nil
}

// ListMissingMetadata 找出缺失导演/类型/演员信息的电影（离线补全用）
func (r *MovieRepository) ListMissingMetadata() ([]model.Movie, error) {
	rows, err := r.db.Raw(`
		SELECT ` + movieColumns + `
		FROM movies
		WHERE tmdb_id IS NOT NULL
		  AND (director = '' OR genres = '{}' OR "cast" = '{}')
		ORDER BY id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []model.Movie
	for rows.Next() {
		movie, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	return movies, rows.Err()
}

// Upsert 创建或更新电影（离线摄取用，按 tmdb_id 去重）
func (r *MovieRepository) Upsert(movie *model.Movie) error {
	return r.db.Exec(`
		INSERT INTO movies (tmdb_id, imdb_id, title, year, director, genres, "cast",
		                    overview, data_source, is_core_genre, review_count, rating, poster_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (tmdb_id) DO UPDATE SET
			imdb_id = EXCLUDED.imdb_id,
			title = EXCLUDED.title,
			year = EXCLUDED.year,
			director = EXCLUDED.director,
			genres = EXCLUDED.genres,
			"cast" = EXCLUDED."cast",
			overview = EXCLUDED.overview,
			is_core_genre = EXCLUDED.is_core_genre,
			rating = EXCLUDED.rating,
			poster_url = EXCLUDED.poster_url,
			updated_at = EXCLUDED.updated_at
	`, movie.TMDBID, movie.IMDbID, movie.Title, movie.Year, movie.Director,
		pq.Array(movie.Genres), pq.Array(movie.Cast),
		movie.Overview, movie.DataSource, movie.IsCoreGenre,
		movie.ReviewCount, movie.Rating, movie.PosterURL, time.Now()).Error
}

// RefreshReviewCounts 用 reviews 表重算各电影的影评计数
func (r *MovieRepository) RefreshReviewCounts() (int64, error) {
	result := r.db.Exec(`
		UPDATE movies m SET review_count = COALESCE(c.cnt, 0)
		FROM (SELECT movie_id, COUNT(*) AS cnt FROM reviews GROUP BY movie_id) c
		WHERE c.movie_id = m.id AND m.review_count <> c.cnt
	`)
	return result.RowsAffected, result.Error
}
