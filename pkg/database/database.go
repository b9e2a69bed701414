package database

import (
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormopentracing "gorm.io/plugin/opentracing"

	"VidTube.com/cmd/model"
)

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var DefaultPool = PoolConfig{
	MaxOpenConns:    100,
	MaxIdleConns:    10,
	ConnMaxLifetime: time.Hour,
}

// Open connects to MySQL, installs the tracing plugin and migrates every
// table. Unique-key violations are translated to gorm.ErrDuplicatedKey.
func Open(dsn string, pool PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(gormmysql.Open(dsn),
		&gorm.Config{
			PrepareStmt:            true,
			SkipDefaultTransaction: true,
			TranslateError:         true,
			Logger:                 logger.Default.LogMode(logger.Warn),
		},
	)
	if err != nil {
		return nil, err
	}
	if err = db.Use(gormopentracing.New()); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	hlog.Info("Starting tables migration...")
	if err := db.AutoMigrate(model.Tables()...); err != nil {
		hlog.Errorf("Failed to migrate tables: %v", err)
		return err
	}
	hlog.Info("Tables migration completed successfully")
	return nil
}

// IsDuplicate reports whether err is a unique-key violation from any of the
// drivers this service runs on.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
