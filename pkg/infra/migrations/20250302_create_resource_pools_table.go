package migrations

import (
	"github.com/NeuralTrust/SafetyHub/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250302_create_resource_pools_table",
		Name: "Create resource_pools table for load balancer rotation state",

		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE TABLE IF NOT EXISTS resource_pools (
					id         TEXT PRIMARY KEY,
					document   JSONB NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS resource_pools;`).Error
		},
	})
}
