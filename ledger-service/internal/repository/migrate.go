package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Preet1920/finebookeasyaccounting/shared/models"
)

type rawUser = map[string]any

// migration is one schema step. Steps are idempotent and applied in order to
// every record at load; each returns how many values it changed.
type migration struct {
	name  string
	apply func(users []rawUser) int
}

var migrations = []migration{
	{name: "book-type-default", apply: defaultBookType},
	{name: "drop-legacy-msb-transactions", apply: dropUserField("msbTransactions")},
	{name: "drop-legacy-transactions", apply: dropUserField("transactions")},
	{name: "empty-collections", apply: ensureCollections},
}

// SchemaVersion is the number of migration steps a decoded record has passed through.
func SchemaVersion() int {
	return len(migrations)
}

// MigrationReport counts the changes each step made to one record.
type MigrationReport map[string]int

func (r MigrationReport) Changed() bool {
	for _, n := range r {
		if n > 0 {
			return true
		}
	}
	return false
}

func (r MigrationReport) Log() {
	if !r.Changed() {
		return
	}
	var parts []string
	for _, m := range migrations {
		if n := r[m.name]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", m.name, n))
		}
	}
	log.Printf("Migrated ledger record to schema v%d: %s", SchemaVersion(), strings.Join(parts, ", "))
}

// DecodeCollection parses a durable record and brings it to the current schema.
func DecodeCollection(data []byte) (models.Collection, MigrationReport, error) {
	report := MigrationReport{}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Collection{}, report, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []rawUser
	if err := dec.Decode(&raw); err != nil {
		return nil, report, fmt.Errorf("failed to parse ledger record: %w", err)
	}

	for _, m := range migrations {
		report[m.name] = m.apply(raw)
	}

	migrated, err := json.Marshal(raw)
	if err != nil {
		return nil, report, fmt.Errorf("failed to re-encode migrated record: %w", err)
	}
	var users models.Collection
	if err := json.Unmarshal(migrated, &users); err != nil {
		return nil, report, fmt.Errorf("failed to decode ledger record: %w", err)
	}
	if users == nil {
		users = models.Collection{}
	}
	return users, report, nil
}

func books(u rawUser) []any {
	list, _ := u["books"].([]any)
	return list
}

func defaultBookType(users []rawUser) int {
	changed := 0
	for _, u := range users {
		for _, b := range books(u) {
			book, ok := b.(map[string]any)
			if !ok {
				continue
			}
			if t, _ := book["type"].(string); t == "" {
				book["type"] = string(models.BookTypeGeneral)
				changed++
			}
		}
	}
	return changed
}

func dropUserField(field string) func([]rawUser) int {
	return func(users []rawUser) int {
		changed := 0
		for _, u := range users {
			if _, ok := u[field]; ok {
				delete(u, field)
				changed++
			}
		}
		return changed
	}
}

func ensureCollections(users []rawUser) int {
	changed := 0
	for _, u := range users {
		if u == nil {
			continue
		}
		if _, ok := u["books"].([]any); !ok {
			u["books"] = []any{}
			changed++
		}
		for _, b := range books(u) {
			book, ok := b.(map[string]any)
			if !ok {
				continue
			}
			if _, ok := book["transactions"].([]any); !ok {
				book["transactions"] = []any{}
				changed++
			}
		}
	}
	return changed
}
