package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hackathon-team-api/internal/domain"
)

// Models lists every table owned by the service, parents before children
func Models() []interface{} {
	return []interface{}{
		&domain.Hackathon{},
		&domain.Team{},
		&domain.Member{},
		&domain.Registration{},
		&domain.NotificationOutbox{},
	}
}

// AutoMigrate creates or updates tables, indexes and constraints
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()
	for _, model := range Models() {
		existed := migrator.HasTable(model)
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
		log.Debug("Migrated table",
			zap.String("model", fmt.Sprintf("%T", model)),
			zap.Bool("was_existing", existed),
		)
	}
	return nil
}
