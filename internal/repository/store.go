package repository

import (
	"github.com/user/scareclub/internal/model"
)

// DataStore 三张源数据表的只读视图，推荐引擎启动时一次性读入
type DataStore struct {
	repos *Repositories
}

func NewDataStore(repos *Repositories) *DataStore {
	return &DataStore{repos: repos}
}

func (s *DataStore) ListMovies() ([]model.Movie, error) {
	return s.repos.Movie.ListAll()
}

func (s *DataStore) ListClubWatches() ([]model.ClubWatch, error) {
	return s.repos.ClubWatch.ListAll()
}

func (s *DataStore) ListReviews() ([]model.Review, error) {
	return s.repos.Review.ListAll()
}
