package main

import (
	"flag"
	"log"

	"github.com/promptdeck/promptdeck-backend/internal/config"
	"github.com/promptdeck/promptdeck-backend/internal/migration"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	seed := flag.Bool("seed", false, "seed default admin and sample listings")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Schema migration complete")

	if *seed {
		if err := migration.SeedDev(db); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
		log.Println("Seed complete")
	}
}
