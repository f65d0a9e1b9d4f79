package repository

import (
	"github.com/user/scareclub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClubWatchRepository struct {
	db *gorm.DB
}

func NewClubWatchRepository(db *gorm.DB) *ClubWatchRepository {
	return &ClubWatchRepository{db: db}
}

// ListAll 按观影顺序读取俱乐部片单
func (r *ClubWatchRepository) ListAll() ([]model.ClubWatch, error) {
	var watches []model.ClubWatch
	err := r.db.Table("club_watches").
		Select("id, movie_id, position, watched_at, notes, created_at").
		Order("position ASC").
		Find(&watches).Error
	return watches, err
}

// Upsert 写入一条观影记录（离线摄取用，一部电影至多一条）
func (r *ClubWatchRepository) Upsert(watch *model.ClubWatch) error {
	return r.db.Table("club_watches").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"position", "watched_at", "notes"}),
	}).Create(watch).Error
}
