package model

import (
	"time"
)

// Movie 电影模型（推荐宇宙中的一部电影）
type Movie struct {
	ID          int       `json:"id" db:"id"`
	TMDBID      *int64    `json:"tmdb_id" db:"tmdb_id" gorm:"unique"`
	IMDbID      string    `json:"imdb_id" db:"imdb_id"`
	Title       string    `json:"title" db:"title"`
	Year        int       `json:"year" db:"year"`
	Director    string    `json:"director" db:"director"`
	Genres      []string  `json:"genres" db:"genres"`
	Cast        []string  `json:"cast" db:"cast"`
	Overview    string    `json:"overview" db:"overview"`
	DataSource  string    `json:"data_source" db:"data_source" gorm:"index"` // club / corpus
	IsCoreGenre bool      `json:"is_core_genre" db:"is_core_genre"`
	ReviewCount int       `json:"review_count" db:"review_count"`
	Rating      float64   `json:"rating" db:"rating"`
	PosterURL   string    `json:"poster_url" db:"poster_url"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at" gorm:"index"`
}

// 数据来源
const (
	SourceClub   = "club"   // 俱乐部片单
	SourceCorpus = "corpus" // 语料扩展发现
)

// ClubWatch 俱乐部观影记录（position 为 1..N 的观影顺序）
type ClubWatch struct {
	ID        int        `json:"id" db:"id"`
	MovieID   int        `json:"movie_id" db:"movie_id" gorm:"unique"`
	Position  int        `json:"position" db:"position"`
	WatchedAt *time.Time `json:"watched_at" db:"watched_at"`
	Notes     string     `json:"notes" db:"notes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Review 影评记录（(movie_id, reviewer) 唯一）
type Review struct {
	ID         int       `json:"id" db:"id"`
	MovieID    int       `json:"movie_id" db:"movie_id" gorm:"index"`
	Reviewer   string    `json:"reviewer" db:"reviewer"`
	ReviewText string    `json:"review_text" db:"review_text"`
	Likes      int       `json:"likes" db:"likes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
