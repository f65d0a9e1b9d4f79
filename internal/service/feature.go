package service

import (
	"strings"

	"github.com/user/scareclub/internal/model"
	"github.com/user/scareclub/internal/utils"
)

// FeatureDoc 一部电影的特征文档（类型 + 导演 + 主演词项）
type FeatureDoc struct {
	MovieID int
	Tokens  []string
}

// FeatureBuilder 把电影元数据转成特征文档
type FeatureBuilder struct {
	castLimit int // 只取前 K 位主演
}

// NewFeatureBuilder 创建特征构建器
func NewFeatureBuilder(castLimit int) *FeatureBuilder {
	if castLimit <= 0 {
		castLimit = 10
	}
	return &FeatureBuilder{castLimit: castLimit}
}

// Build 为单部电影生成特征文档
// 元数据为空的电影也会得到一个（空）文档，保证按 ID 可寻址
func (b *FeatureBuilder) Build(movie *model.Movie) FeatureDoc {
	tokens := make([]string, 0, len(movie.Genres)+b.castLimit+2)

	tokens = append(tokens, utils.NameTokens(movie.Genres)...)

	// 导演字段可能合并了多位署名导演
	tokens = append(tokens, utils.NameTokens(utils.SplitList(movie.Director))...)

	cast := movie.Cast
	if len(cast) > b.castLimit {
		cast = cast[:b.castLimit]
	}
	tokens = append(tokens, utils.NameTokens(cast)...)

	return FeatureDoc{MovieID: movie.ID, Tokens: tokens}
}

// BuildAll 为整个宇宙生成特征文档集合，顺序与传入切片一致
func (b *FeatureBuilder) BuildAll(movies []model.Movie) []FeatureDoc {
	docs := make([]FeatureDoc, 0, len(movies))
	for i := range movies {
		docs = append(docs, b.Build(&movies[i]))
	}
	return docs
}

// String 特征文档的文本形式（调试与日志用）
func (d FeatureDoc) String() string {
	return strings.Join(d.Tokens, " ")
}
