// Package entity extracts structured query entities (locations, time
// phrases, ticket IDs, phone numbers, statuses) from Indonesian free text.
// Extraction runs in a fixed precedence: inherited conversation context
// always beats anything matched from the raw query.
package entity

// Category buckets entities by the role they play in the generated SQL.
type Category string

const (
	CategoryGeographic Category = "geographic"
	CategoryTemporal   Category = "temporal"
	CategoryDetail     Category = "detail"
	CategoryStatus     Category = "status"
	CategoryContext    Category = "context"
)

// SearchType selects the SQL operator for an entity.
type SearchType string

const (
	SearchContains    SearchType = "contains"
	SearchExact       SearchType = "exact_match"
	SearchCategorical SearchType = "categorical"
	SearchRawSQL      SearchType = "raw_sql"
)

// Entity subtypes for detail-category matches. Fuzzy MSISDN matches are
// best-effort and must stay distinguishable from confident ones.
const (
	TypeTicketID    = "ticket_id"
	TypeMSISDN      = "msisdn"
	TypeMSISDNFuzzy = "msisdn_fuzzy"
)

// Entity is one extracted filter condition.
type Entity struct {
	Field      string
	Value      string
	SearchType SearchType
	EntityType string // detail subtype, empty otherwise
	GroupBy    string // temporal bucketing hint (DAY, WEEK, MONTH, YEAR)
}

// Set maps a category to its ordered entities. Empty categories are
// omitted rather than present with an empty list.
type Set map[Category][]Entity

// Add appends an entity to its category.
func (s Set) Add(cat Category, e Entity) {
	s[cat] = append(s[cat], e)
}

// Has reports whether the category holds at least one entity.
func (s Set) Has(cat Category) bool {
	return len(s[cat]) > 0
}

// First returns the first entity in a category, if any.
func (s Set) First(cat Category) (Entity, bool) {
	if len(s[cat]) == 0 {
		return Entity{}, false
	}
	return s[cat][0], true
}

// EnhancedContext carries filters inherited from earlier turns of the same
// session. It is produced by follow-up resolution and takes precedence over
// anything matched from the current query text.
type EnhancedContext struct {
	Intent          string
	InheritLocation bool
	InheritTime     bool
	Location        string
	Timeframe       string // raw SQL condition carried over from the prior turn
	Filters         []string
	GeoEntities     []Entity // fully resolved geographic entities, used verbatim
}
