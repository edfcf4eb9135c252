package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/model"
)

func exec(tb testing.TB, db *gorm.DB, sql string, args ...interface{}) {
	tb.Helper()
	if err := db.Exec(sql, args...).Error; err != nil {
		tb.Fatalf("seed: %v", err)
	}
}

func SeedOrganization(tb testing.TB, db *gorm.DB, name string) model.Organization {
	tb.Helper()
	org := model.Organization{ID: uuid.New(), Name: name}
	exec(tb, db, `INSERT INTO organizations (id, name) VALUES (?, ?)`, org.ID, org.Name)
	return org
}

// SeedMember creates a user belonging to org and returns the user id.
func SeedMember(tb testing.TB, db *gorm.DB, org model.Organization, approved bool) uuid.UUID {
	tb.Helper()
	user := SeedUser(tb, db, org.Name+" staff", "010-0000-0000")
	status := "pending"
	if approved {
		status = "approved"
	}
	exec(tb, db, `INSERT INTO organization_members (user_id, organization_id, status) VALUES (?, ?, ?)`,
		user.ID, org.ID, status)
	return user.ID
}

func SeedUser(tb testing.TB, db *gorm.DB, name, phone string) model.User {
	tb.Helper()
	user := model.User{ID: uuid.New(), Name: name, Phone: phone}
	exec(tb, db, `INSERT INTO users (id, name, phone) VALUES (?, ?, ?)`, user.ID, user.Name, user.Phone)
	return user
}

func SeedEvent(tb testing.TB, db *gorm.DB, organizer model.Organization, inviteCode string, commissionRate float64) model.Event {
	tb.Helper()
	event := model.Event{
		ID:             uuid.New(),
		OrganizationID: organizer.ID,
		Name:           "event " + inviteCode,
		InviteCode:     inviteCode,
		CommissionRate: commissionRate,
	}
	exec(tb, db, `INSERT INTO events (id, organization_id, name, invite_code, commission_rate) VALUES (?, ?, ?, ?, ?)`,
		event.ID, event.OrganizationID, event.Name, event.InviteCode, event.CommissionRate)
	return event
}

func SeedEventPartner(tb testing.TB, db *gorm.DB, event model.Event, partner model.Organization, status string, commissionRate *float64) {
	tb.Helper()
	exec(tb, db, `INSERT INTO event_partners (event_id, organization_id, status, commission_rate) VALUES (?, ?, ?, ?)`,
		event.ID, partner.ID, status, commissionRate)
}

func SeedLedgerContract(tb testing.TB, db *gorm.DB, event model.Event, partner model.Organization, status string, amount int64) uuid.UUID {
	tb.Helper()
	id := uuid.New()
	exec(tb, db, `INSERT INTO contracts (id, event_id, partner_organization_id, status, total_amount) VALUES (?, ?, ?, ?, ?)`,
		id, event.ID, partner.ID, status, amount)
	return id
}
