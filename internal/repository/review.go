package repository

import (
	"github.com/user/scareclub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// ListAll 读取全部影评（只取构建重合索引需要的列）
func (r *ReviewRepository) ListAll() ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Table("reviews").
		Select("id, movie_id, reviewer, review_text, likes, created_at").
		Order("movie_id, reviewer").
		Find(&reviews).Error
	return reviews, err
}

// Upsert 写入影评（离线摄取用，(movie_id, reviewer) 去重）
func (r *ReviewRepository) Upsert(review *model.Review) error {
	return r.db.Table("reviews").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "movie_id"}, {Name: "reviewer"}},
		DoUpdates: clause.AssignmentColumns([]string{"review_text", "likes"}),
	}).Create(review).Error
}

// CountByMovie 某部电影的影评数
func (r *ReviewRepository) CountByMovie(movieID int) (int64, error) {
	var count int64
	err := r.db.Table("reviews").Where("movie_id = ?", movieID).Count(&count).Error
	return count, err
}
