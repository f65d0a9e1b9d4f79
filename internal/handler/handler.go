package handler

import (
	"github.com/user/scareclub/internal/config"
	"github.com/user/scareclub/internal/repository"
	"github.com/user/scareclub/internal/service"
	"golang.org/x/sync/singleflight"
)

// Handler HTTP 处理器
type Handler struct {
	Repos  *repository.Repositories
	Config *config.Config
	Engine *service.Engine

	sf singleflight.Group // 折叠并发的相同推荐请求
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, engine *service.Engine) *Handler {
	return &Handler{
		Repos:  repos,
		Config: cfg,
		Engine: engine,
	}
}
