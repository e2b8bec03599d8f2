package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 測試的工作目錄下沒有設定檔，Load 應容忍缺檔並落在預設值
func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)

	// redis 預設不啟用
	assert.Empty(t, cfg.Redis.Addr)

	assert.Equal(t, 8, cfg.Game.GallerySeconds)
	assert.Equal(t, 10, cfg.Game.ResultsSeconds)
	assert.Equal(t, 2, cfg.Game.TickInterval)
	assert.Equal(t, 8, cfg.Game.MaxPlayers)
	assert.Equal(t, "rating", cfg.Game.ScoringMode)
	assert.Empty(t, cfg.Game.Prompts)
}
