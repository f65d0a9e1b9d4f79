package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config 应用配置
type Config struct {
	Env         string
	DatabaseURL string  `validate:"required"`
	Port        string  `validate:"required"`
	SiteName    string
	CoreGenre   string `validate:"required"` // 目标类型（用于 is_core_genre 过滤）
	TMDBToken   string

	// 推荐算法参数
	CastLimit     int     `validate:"gt=0"`          // 特征串取前 K 位演员
	MaxFeatures   int     `validate:"gt=0"`          // TF-IDF 保留词项数
	UserWeight    float64 `validate:"gte=0,lte=1"`   // 用户重合权重
	ContentWeight float64 `validate:"gte=0,lte=1"`   // 内容相似权重
	MinSimilarity float64 `validate:"gte=0,lte=1"`   // 内容相似硬过滤阈值
	DefaultTopN   int     `validate:"gt=0,lte=100"`  // 默认返回条数
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "scareclub")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := getEnv("DATABASE_URL", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL))

	cfg := &Config{
		Env:         getEnv("APP_ENV", "development"),
		DatabaseURL: dbURL,
		Port:        getEnv("PORT", "5008"),
		SiteName:    getEnv("SITE_NAME", "ScareClub"),
		CoreGenre:   getEnv("CORE_GENRE", "Horror"),
		TMDBToken:   getEnv("TMDB_TOKEN", ""),

		CastLimit:     getEnvInt("FEATURE_CAST_LIMIT", 10),
		MaxFeatures:   getEnvInt("TFIDF_MAX_FEATURES", 1000),
		UserWeight:    getEnvFloat("HYBRID_USER_WEIGHT", 0.7),
		ContentWeight: getEnvFloat("HYBRID_CONTENT_WEIGHT", 0.3),
		MinSimilarity: getEnvFloat("MIN_CONTENT_SIMILARITY", 0.05),
		DefaultTopN:   getEnvInt("DEFAULT_TOP_N", 20),
	}

	if err := validator.New().Struct(cfg); err != nil {
		log.Fatalf("配置校验失败: %v", err)
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
