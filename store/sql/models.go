package sqlstore

import (
	"time"

	"github.com/goliatone/go-integrations/core"
	"github.com/uptrace/bun"
)

type originIntegrationRecord struct {
	bun.BaseModel `bun:"table:origin_integrations,alias:oi"`

	ID          string    `bun:"id,pk"`
	Origin      string    `bun:"origin,notnull"`
	Integration string    `bun:"integration,notnull"`
	Name        string    `bun:"name,notnull"`
	Body        string    `bun:"body,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newOriginIntegrationRecord(in core.OriginIntegration, now time.Time) *originIntegrationRecord {
	return &originIntegrationRecord{
		Origin:      in.Origin,
		Integration: in.Integration,
		Name:        in.Name,
		Body:        in.Body,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type originMemberRecord struct {
	bun.BaseModel `bun:"table:origin_members,alias:om"`

	ID        string    `bun:"id,pk"`
	SessionID string    `bun:"session_id,notnull"`
	Origin    string    `bun:"origin,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
