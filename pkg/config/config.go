package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Game   GameConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

type RedisConfig struct {
	Addr     string // 留空表示只做單機廣播，不經過 redis
	Password string
	DB       int
}

// GameConfig 遊戲流程的預設參數
type GameConfig struct {
	GallerySeconds int      // 展示階段的固定時間
	ResultsSeconds int      // 結算階段的固定時間
	TickInterval   int      // 期限掃描的間隔（秒）
	MaxPlayers     int      // 房間人數上限的預設值
	ScoringMode    string   // count 或 rating
	Prompts        []string // 題目池，留空則用內建題目
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// 找不到設定檔時用預設值，其他錯誤照樣回報
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("game.galleryseconds", 8)
	viper.SetDefault("game.resultsseconds", 10)
	viper.SetDefault("game.tickinterval", 2)
	viper.SetDefault("game.maxplayers", 8)
	viper.SetDefault("game.scoringmode", "rating")
}
