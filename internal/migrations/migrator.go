package migrations

import (
	"fmt"
	"time"

	"github.com/Xyleee/api-devguidance/pkg/logger"
	"gorm.io/gorm"
)

// Migration is one schema change applied after AutoMigrate has built the tables.
type Migration struct {
	ID        string
	Name      string
	Up        func(db *gorm.DB) error
	Down      func(db *gorm.DB) error
	DependsOn []string
}

// MigrationRecord marks a migration as applied.
type MigrationRecord struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db, migrations: GetMigrations()}
}

func (m *Migrator) applied() (map[string]bool, error) {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	var records []MigrationRecord
	if err := m.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	done := make(map[string]bool, len(records))
	for _, r := range records {
		done[r.ID] = true
	}
	return done, nil
}

// Pending lists the IDs that Run would apply.
func (m *Migrator) Pending() ([]string, error) {
	done, err := m.applied()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, mg := range m.migrations {
		if !done[mg.ID] {
			ids = append(ids, mg.ID)
		}
	}
	return ids, nil
}

// Run applies pending migrations in order, each in its own transaction.
func (m *Migrator) Run() error {
	done, err := m.applied()
	if err != nil {
		return err
	}

	for _, mg := range m.migrations {
		if done[mg.ID] {
			continue
		}
		for _, dep := range mg.DependsOn {
			if !done[dep] {
				return fmt.Errorf("migration %s needs %s first", mg.ID, dep)
			}
		}

		logger.Info().Str("migration", mg.ID).Msg(mg.Name)
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mg.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{ID: mg.ID, Name: mg.Name}).Error
		})
		if err != nil {
			logger.Error().Err(err).Str("migration", mg.ID).Msg("Migration failed")
			return fmt.Errorf("migration %s failed: %w", mg.ID, err)
		}
		done[mg.ID] = true
	}
	return nil
}

// Rollback reverts the most recently registered applied migration.
// It returns the reverted ID, or "" when nothing is applied.
func (m *Migrator) Rollback() (string, error) {
	done, err := m.applied()
	if err != nil {
		return "", err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mg := m.migrations[i]
		if !done[mg.ID] {
			continue
		}
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if mg.Down != nil {
				if err := mg.Down(tx); err != nil {
					return err
				}
			}
			return tx.Delete(&MigrationRecord{ID: mg.ID}).Error
		})
		if err != nil {
			return "", fmt.Errorf("rollback %s failed: %w", mg.ID, err)
		}
		logger.Warn().Str("migration", mg.ID).Msg("Migration rolled back")
		return mg.ID, nil
	}
	return "", nil
}

// GetMigrations returns all registered migrations in order
func GetMigrations() []Migration {
	return []Migration{
		Migration001MessageThreadIndexes(),
		Migration002MentorshipPairIndex(),
	}
}
