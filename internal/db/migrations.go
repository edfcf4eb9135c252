package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Only tables owned by this service are migrated here. events, organizations,
// organization_members, event_partners, users and contracts belong to the
// collaborating services and are read as is.
var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS contract_configuration (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		event_id UUID NOT NULL,
		organization_id UUID NOT NULL,
		payment_stages JSONB NOT NULL DEFAULT '[]',
		legal_terms TEXT NOT NULL DEFAULT '',
		special_notes TEXT NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contract_configuration_event ON contract_configuration (event_id);`,
	`CREATE TABLE IF NOT EXISTS contract_unit_type (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		configuration_id UUID NOT NULL REFERENCES contract_configuration(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		floor_plan_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_unit_type_configuration_id ON contract_unit_type (configuration_id);`,
	`CREATE TABLE IF NOT EXISTS partner_sheet (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		configuration_id UUID NOT NULL REFERENCES contract_configuration(id) ON DELETE CASCADE,
		organization_id UUID NOT NULL,
		category_name TEXT NOT NULL DEFAULT '',
		memo TEXT NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_partner_sheet_configuration ON partner_sheet (configuration_id, organization_id);`,
	`CREATE TABLE IF NOT EXISTS sheet_column (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		sheet_id UUID NOT NULL REFERENCES partner_sheet(id) ON DELETE CASCADE,
		unit_type_id UUID,
		custom_name TEXT NOT NULL DEFAULT '',
		column_type VARCHAR(16) NOT NULL DEFAULT 'amount',
		sort_order INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sheet_column_sheet_id ON sheet_column (sheet_id);`,
	`CREATE TABLE IF NOT EXISTS sheet_row (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		sheet_id UUID NOT NULL REFERENCES partner_sheet(id) ON DELETE CASCADE,
		option_name TEXT NOT NULL,
		popup_content TEXT NOT NULL DEFAULT '',
		popup_image TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		prices JSONB NOT NULL DEFAULT '{}',
		cell_values JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sheet_row_sheet_id ON sheet_row (sheet_id);`,
	`CREATE TABLE IF NOT EXISTS integrated_contract (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		configuration_id UUID NOT NULL REFERENCES contract_configuration(id),
		event_id UUID NOT NULL,
		unit_type_id UUID NOT NULL,
		unit_type_name TEXT NOT NULL DEFAULT '',
		customer_id UUID NOT NULL,
		customer_name TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		code VARCHAR(32) NOT NULL,
		selected_items JSONB NOT NULL DEFAULT '[]',
		total_amount BIGINT NOT NULL,
		payment_schedule JSONB NOT NULL DEFAULT '[]',
		legal_agreed BOOLEAN NOT NULL,
		signature TEXT NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL,
		signed_at TIMESTAMPTZ,
		cancelled_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_integrated_contract_code ON integrated_contract (code);`,
	`CREATE INDEX IF NOT EXISTS idx_integrated_contract_event_id ON integrated_contract (event_id);`,
	`CREATE INDEX IF NOT EXISTS idx_integrated_contract_customer_id ON integrated_contract (customer_id);`,
	`CREATE TABLE IF NOT EXISTS integrated_contract_partner (
		contract_id UUID NOT NULL REFERENCES integrated_contract(id) ON DELETE CASCADE,
		organization_id UUID NOT NULL,
		PRIMARY KEY (contract_id, organization_id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_integrated_contract_partner_org ON integrated_contract_partner (organization_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
