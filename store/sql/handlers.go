package sqlstore

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

func originIntegrationHandlers() repository.ModelHandlers[*originIntegrationRecord] {
	return repository.ModelHandlers[*originIntegrationRecord]{
		NewRecord: func() *originIntegrationRecord {
			return &originIntegrationRecord{}
		},
		GetID: func(record *originIntegrationRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *originIntegrationRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *originIntegrationRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func originMemberHandlers() repository.ModelHandlers[*originMemberRecord] {
	return repository.ModelHandlers[*originMemberRecord]{
		NewRecord: func() *originMemberRecord {
			return &originMemberRecord{}
		},
		GetID: func(record *originMemberRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *originMemberRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *originMemberRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func parseUUID(value string) uuid.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
