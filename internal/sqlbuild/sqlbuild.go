// Package sqlbuild turns an intent plus extracted entities into a
// warehouse query. The builder itself is engine-agnostic; the ClickHouse
// specifics are isolated in the rewrite table (rewrite.go).
package sqlbuild

import (
	"fmt"
	"strings"

	"github.com/telcoinsight/keluhan-bot-go/internal/entity"
	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
)

// Intents the builder understands.
const (
	IntentCount   = "count"
	IntentList    = "list"
	IntentDetail  = "detail"
	IntentSummary = "summary"
)

// listColumns is the fixed projection for list queries.
var listColumns = []string{
	"order_id",
	"create_time",
	"description",
	"kabupaten_kota_create_ticket",
	"customer_type_create_ticket",
	"business_status",
	"priority_l2_assign",
}

// Categories whose per-entity conditions are OR'd together: any matching
// field qualifies the row.
var orCategories = map[entity.Category]bool{
	entity.CategoryGeographic: true,
	entity.CategoryDetail:     true,
}

// whereOrder fixes the category evaluation order so generated SQL is
// deterministic. The context category never contributes clauses.
var whereOrder = []entity.Category{
	entity.CategoryGeographic,
	entity.CategoryTemporal,
	entity.CategoryDetail,
	entity.CategoryStatus,
}

// Builder constructs complaint-warehouse queries for one table.
type Builder struct {
	table string
}

// NewBuilder creates a builder targeting the given table.
func NewBuilder(table string) *Builder {
	return &Builder{table: table}
}

// Build returns the query for the intent, or ErrUnknownIntent. Callers
// must treat the error as a build failure, not an empty result.
func (b *Builder) Build(intent string, entities entity.Set) (string, error) {
	where := b.buildWhere(entities)

	switch intent {
	case IntentCount:
		return fmt.Sprintf("SELECT count() AS total_count FROM %s WHERE %s", b.table, where), nil

	case IntentList:
		return fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY create_time DESC LIMIT 10",
			strings.Join(listColumns, ", "), b.table, where), nil

	case IntentDetail:
		// Most recent matching record only
		return fmt.Sprintf("SELECT * FROM %s WHERE %s ORDER BY create_time DESC LIMIT 1",
			b.table, where), nil

	case IntentSummary:
		bucket := timeBucket(entities)
		return fmt.Sprintf(
			"SELECT provinsi_create_ticket, count() AS total_keluhan, business_status, customer_type_create_ticket, %s AS waktu "+
				"FROM %s WHERE %s "+
				"GROUP BY provinsi_create_ticket, business_status, customer_type_create_ticket, waktu "+
				"ORDER BY waktu DESC",
			bucket, b.table, where), nil
	}

	return "", fmt.Errorf("%w: %q", domerrors.ErrUnknownIntent, intent)
}

// buildWhere assembles the WHERE clause: OR within the geographic and
// detail categories, AND across everything.
func (b *Builder) buildWhere(entities entity.Set) string {
	var conditions []string

	for _, category := range whereOrder {
		list := entities[category]
		if len(list) == 0 {
			continue
		}

		var categoryConditions []string
		for _, e := range list {
			cond := entityCondition(e)
			if cond == "" {
				continue
			}
			categoryConditions = append(categoryConditions, cond)
		}
		if len(categoryConditions) == 0 {
			continue
		}

		if orCategories[category] && len(categoryConditions) > 1 {
			conditions = append(conditions, "("+strings.Join(categoryConditions, " OR ")+")")
		} else {
			conditions = append(conditions, categoryConditions...)
		}
	}

	if len(conditions) == 0 {
		return "1=1"
	}
	return strings.Join(conditions, " AND ")
}

func entityCondition(e entity.Entity) string {
	if e.Field == "" || e.Value == "" {
		return ""
	}

	switch e.SearchType {
	case entity.SearchContains:
		return fmt.Sprintf("%s ILIKE '%%%s%%'", e.Field, escape(e.Value))
	case entity.SearchExact, entity.SearchCategorical:
		return fmt.Sprintf("%s = '%s'", e.Field, escape(e.Value))
	case entity.SearchRawSQL:
		return RewriteForClickHouse(e.Value)
	}
	return ""
}

// timeBucket picks the summary bucket expression from the temporal
// entity's group_by hint, defaulting to daily.
func timeBucket(entities entity.Set) string {
	groupBy := ""
	if temporal, ok := entities.First(entity.CategoryTemporal); ok {
		groupBy = temporal.GroupBy
	}

	switch strings.ToUpper(groupBy) {
	case "WEEK":
		return "toMonday(create_time)"
	case "MONTH":
		return "toStartOfMonth(create_time)"
	case "YEAR":
		return "toStartOfYear(create_time)"
	default:
		return "toDate(create_time)"
	}
}

// escape doubles single quotes for embedding in a string literal.
func escape(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}
