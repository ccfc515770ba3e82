// Package history exports run results to MySQL so limit drift per peer can
// be queried across runs. Export is best effort: the command files are
// already on disk before this runs, so a failed export is logged, not fatal.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"maxpfx/pkg/model"
)

// Store wraps the history database.
type Store struct {
	db *gorm.DB
}

// Open connects to MySQL and runs migrations.
// Env:
//
//	MYSQL_DSN or MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASS, MYSQL_DB
func Open() (*Store, error) {
	host := getenv("MYSQL_HOST", "127.0.0.1")
	port := getenv("MYSQL_PORT", "3306")
	user := getenv("MYSQL_USER", "root")
	pass := getenv("MYSQL_PASS", "")
	dbname := getenv("MYSQL_DB", "maxpfx")

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", user, pass, host, port, dbname)
	}

	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	db, err := gorm.Open(mysql.Open(dsn), cfg)
	if err != nil {
		// Try to create database if missing
		if strings.Contains(err.Error(), "Unknown database") {
			if cerr := createDatabase(user, pass, host, port, dbname); cerr != nil {
				return nil, fmt.Errorf("create database failed: %w", cerr)
			}
			db, err = gorm.Open(mysql.Open(dsn), cfg)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	if err := configurePool(db); err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.RunRecord{}, &model.ResultRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func configurePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	return nil
}

// SaveRun persists the run summary and one row per result.
func (s *Store) SaveRun(run model.RunRecord, results []model.ReconciliationResult) error {
	if err := s.db.Create(&run).Error; err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	rows := make([]model.ResultRecord, 0, len(results))
	for _, r := range results {
		rows = append(rows, model.ResultRecord{
			RunID:       run.ID,
			ASN:         r.ASN,
			Family:      r.Family.String(),
			Configured:  r.ConfiguredLimit,
			Reported:    r.ReportedCount,
			Recommended: r.RecommendedLimit,
			Multiplier:  r.Multiplier,
			Disposition: string(r.Disposition),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func createDatabase(user, pass, host, port, dbname string) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/", user, pass, host, port)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET utf8mb4", dbname))
	return err
}
