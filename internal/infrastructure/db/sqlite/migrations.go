package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Migration is a single versioned schema change.
type Migration struct {
	Version string
	Name    string
	Up      func(tx *gorm.DB) error
	Down    func(tx *gorm.DB) error
}

// MigrationRecord tracks an applied migration.
type MigrationRecord struct {
	Version   string `gorm:"primaryKey;size:32"`
	Name      string `gorm:"size:255;not null"`
	AppliedAt time.Time
}

func (MigrationRecord) TableName() string { return "schema_migrations" }

// MigrationStatus reports whether a registered migration has been applied.
type MigrationStatus struct {
	Version   string
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

var rowModels = []any{
	&userRow{},
	&apartmentRow{},
	&apartmentImageRow{},
	&leaseRow{},
	&applicationRow{},
	&paymentRow{},
	&maintenanceRow{},
}

// Migrations returns the schema history in application order.
func Migrations() []Migration {
	return []Migration{
		{
			Version: "0001",
			Name:    "create_tables",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(rowModels...)
			},
			Down: func(tx *gorm.DB) error {
				m := tx.Migrator()
				for i := len(rowModels) - 1; i >= 0; i-- {
					if err := m.DropTable(rowModels[i]); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version: "0002",
			Name:    "one_active_lease_index",
			Up: func(tx *gorm.DB) error {
				return tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_leases_one_active
					ON leases(apartment_id) WHERE status = 'active'`).Error
			},
			Down: func(tx *gorm.DB) error {
				return tx.Exec(`DROP INDEX IF EXISTS idx_leases_one_active`).Error
			},
		},
	}
}

// Migrator applies and rolls back migrations, recording each in schema_migrations.
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

// NewMigrator creates a Migrator with the default schema history.
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db, migrations: Migrations()}
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	return m.db.WithContext(ctx).AutoMigrate(&MigrationRecord{})
}

func (m *Migrator) applied(ctx context.Context) (map[string]MigrationRecord, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return nil, err
	}
	var records []MigrationRecord
	if err := m.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	out := make(map[string]MigrationRecord, len(records))
	for _, r := range records {
		out[r.Version] = r
	}
	return out, nil
}

// Up applies every pending migration, each in its own transaction together with
// its record. It returns the versions applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate up: %w", err)
	}

	var done []string
	for _, mg := range m.migrations {
		if _, ok := applied[mg.Version]; ok {
			continue
		}
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mg.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{Version: mg.Version, Name: mg.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return done, fmt.Errorf("migrate up %s_%s: %w", mg.Version, mg.Name, err)
		}
		done = append(done, mg.Version)
	}
	return done, nil
}

// Down rolls back the most recently applied migration and returns its version.
// It returns an empty version when nothing is applied.
func (m *Migrator) Down(ctx context.Context) (string, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return "", fmt.Errorf("migrate down: %w", err)
	}

	var last MigrationRecord
	err := m.db.WithContext(ctx).Order("version DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("migrate down: %w", err)
	}

	var target *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == last.Version {
			target = &m.migrations[i]
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("migrate down: no migration registered for applied version %s", last.Version)
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&last).Error
	})
	if err != nil {
		return "", fmt.Errorf("migrate down %s_%s: %w", target.Version, target.Name, err)
	}
	return last.Version, nil
}

// Status lists every registered migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate status: %w", err)
	}
	out := make([]MigrationStatus, 0, len(m.migrations))
	for _, mg := range m.migrations {
		st := MigrationStatus{Version: mg.Version, Name: mg.Name}
		if r, ok := applied[mg.Version]; ok {
			at := r.AppliedAt
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}
