package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.CoreGenre != "Horror" {
		t.Errorf("CoreGenre = %q，期望 Horror", cfg.CoreGenre)
	}
	if cfg.UserWeight != 0.7 || cfg.ContentWeight != 0.3 {
		t.Errorf("默认权重错误: %f / %f", cfg.UserWeight, cfg.ContentWeight)
	}
	if cfg.MinSimilarity != 0.05 {
		t.Errorf("MinSimilarity = %f，期望 0.05", cfg.MinSimilarity)
	}
	if cfg.CastLimit != 10 || cfg.MaxFeatures != 1000 || cfg.DefaultTopN != 20 {
		t.Errorf("默认算法参数错误: %d / %d / %d", cfg.CastLimit, cfg.MaxFeatures, cfg.DefaultTopN)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HYBRID_USER_WEIGHT", "0.6")
	t.Setenv("HYBRID_CONTENT_WEIGHT", "0.4")
	t.Setenv("DEFAULT_TOP_N", "50")
	t.Setenv("CORE_GENRE", "Thriller")

	cfg := Load()
	if cfg.UserWeight != 0.6 || cfg.ContentWeight != 0.4 {
		t.Errorf("环境变量覆盖权重失败: %f / %f", cfg.UserWeight, cfg.ContentWeight)
	}
	if cfg.DefaultTopN != 50 {
		t.Errorf("DefaultTopN = %d，期望 50", cfg.DefaultTopN)
	}
	if cfg.CoreGenre != "Thriller" {
		t.Errorf("CoreGenre = %q，期望 Thriller", cfg.CoreGenre)
	}
}
