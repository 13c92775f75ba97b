package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/auth"
	mod "github.com/Sivanjalibollapalli/smart-habit-tracker/internal/config"
	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/habit"
	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/handlers"
	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/ml"
	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "habit-server",
	Short: "Habit tracker backend",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	cfg := mod.LoadConfig()

	// init DB
	db, err := store.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	store.SetDB(db)

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.CORSOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	// health
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "hello world"})
	})

	// register handlers
	eng := habit.NewEngine(db)
	mlClient := ml.NewClient(cfg.MLURL)
	verifier := auth.NewRemoteVerifier(cfg.AuthURL)
	handlers.RegisterRoutes(r, eng, mlClient, verifier)

	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
