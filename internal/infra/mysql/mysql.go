package mysql

import (
	"fmt"

	"storefront/internal/config"
	"storefront/internal/domain"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Models lists every table the service owns, in dependency order.
var Models = []any{
	&domain.Customer{},
	&domain.Seller{},
	&domain.Product{},
	&domain.CartLine{},
	&domain.Order{},
	&domain.OrderItem{},
	&domain.Payment{},
	&domain.Feedback{},
}

// GormConfig is shared by the server and the repository tests. Writes are only
// wrapped in a transaction when a caller asks for one, and driver errors such as
// duplicate keys are translated to gorm's sentinels.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		NamingStrategy:         schema.NamingStrategy{SingularTable: false},
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

func Open(cfg config.MySQLConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("mysql ready", zap.String("host", cfg.Host), zap.String("database", cfg.Database))
	return db, nil
}
