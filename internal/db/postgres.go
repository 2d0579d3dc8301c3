package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/rentline-backend/internal/logger"
	"github.com/yungbote/rentline-backend/internal/types"
	"github.com/yungbote/rentline-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "rentline", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}
	log.Info("uuid-ossp extension enabled")

	return &PostgresService{db: db, log: serviceLog}, nil
}

// AutoMigrateAll performs schema setup once at initialization. Request-time
// code never creates or alters tables.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Property{},
		&types.Listing{},
		&types.RentalRequest{},
		&types.Contract{},
		&types.ContractTenant{},
		&types.ContractSignature{},
		&types.ProposedEndDate{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		stmt string
	}{
		{"fk_contract_tenant_contract_id", `
			ALTER TABLE "contract_tenant"
			ADD CONSTRAINT "fk_contract_tenant_contract_id"
			FOREIGN KEY ("contract_id") REFERENCES "contract"("id")
			ON DELETE CASCADE`},
		{"fk_contract_tenant_tenant_user_id", `
			ALTER TABLE "contract_tenant"
			ADD CONSTRAINT "fk_contract_tenant_tenant_user_id"
			FOREIGN KEY ("tenant_user_id") REFERENCES "user"("id")
			ON DELETE RESTRICT`},
		{"fk_contract_signature_contract_id", `
			ALTER TABLE "contract_signature"
			ADD CONSTRAINT "fk_contract_signature_contract_id"
			FOREIGN KEY ("contract_id") REFERENCES "contract"("id")
			ON DELETE CASCADE`},
		{"fk_contract_signature_user_id", `
			ALTER TABLE "contract_signature"
			ADD CONSTRAINT "fk_contract_signature_user_id"
			FOREIGN KEY ("user_id") REFERENCES "user"("id")
			ON DELETE RESTRICT`},
		{"fk_proposed_end_date_contract_id", `
			ALTER TABLE "contract_proposed_end_date"
			ADD CONSTRAINT "fk_proposed_end_date_contract_id"
			FOREIGN KEY ("contract_id") REFERENCES "contract"("id")
			ON DELETE CASCADE`},
		{"fk_proposed_end_date_user_id", `
			ALTER TABLE "contract_proposed_end_date"
			ADD CONSTRAINT "fk_proposed_end_date_user_id"
			FOREIGN KEY ("user_id") REFERENCES "user"("id")
			ON DELETE RESTRICT`},
	}
	for _, c := range constraints {
		var count int64
		if err := s.db.Raw(
			`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`, c.name,
		).Scan(&count).Error; err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", c.name, err)
		}
		if count > 0 {
			continue
		}
		if err := s.db.Exec(c.stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
