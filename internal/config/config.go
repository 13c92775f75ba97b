package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port        int
	DBPath      string
	AuthURL     string
	MLURL       string
	CORSOrigins []string
}

func LoadConfig() Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("database.path", "habits.db")
	viper.SetDefault("auth.url", "http://localhost:4000")
	viper.SetDefault("ml.url", "http://localhost:5001")
	viper.SetDefault("cors.origins", []string{"http://localhost:3000"})
	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file found, using defaults")
	}
	return Config{
		Port:        viper.GetInt("server.port"),
		DBPath:      viper.GetString("database.path"),
		AuthURL:     viper.GetString("auth.url"),
		MLURL:       viper.GetString("ml.url"),
		CORSOrigins: viper.GetStringSlice("cors.origins"),
	}
}
