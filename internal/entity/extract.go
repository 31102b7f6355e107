package entity

import (
	"regexp"
	"strings"
)

var (
	ticketRe    = regexp.MustCompile(`(?i)(cc-\d{8}-\d{8})`)
	msisdn628Re = regexp.MustCompile(`\b(628\d{8,12})\b`)
	msisdn08Re  = regexp.MustCompile(`\b(08\d{8,12})\b`)
	bareDigitRe = regexp.MustCompile(`\b(\d{10,15})\b`)
)

// Extractor turns a query plus optional inherited context into an entity
// set. It is stateless and safe for concurrent use.
type Extractor struct{}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract applies the extraction rules in precedence order. Categories
// populated from the enhanced context are never overwritten by raw-query
// matches.
func (x *Extractor) Extract(query string, enhanced *EnhancedContext) Set {
	entities := make(Set)
	lower := strings.ToLower(query)

	x.applyEnhancedContext(entities, enhanced)

	if details := extractDetailEntities(query); len(details) > 0 && !entities.Has(CategoryDetail) {
		entities[CategoryDetail] = details
	}

	for _, fm := range fieldMappings {
		if entities.Has(fm.category) {
			continue
		}
		for _, syn := range fm.synonyms {
			if !strings.Contains(lower, syn) {
				continue
			}
			value := extractValueForField(lower, fm)
			if value == "" {
				continue
			}
			entities.Add(fm.category, Entity{
				Field:      fm.field,
				Value:      value,
				SearchType: fm.searchType,
			})
			break
		}
	}

	if !entities.Has(CategoryGeographic) {
		if geos := extractGeographicEntities(lower); len(geos) > 0 {
			entities[CategoryGeographic] = geos
		}
	}

	if !entities.Has(CategoryTemporal) {
		if temporal, ok := extractTemporalEntity(lower); ok {
			entities[CategoryTemporal] = []Entity{temporal}
		}
	}

	return entities
}

func (x *Extractor) applyEnhancedContext(entities Set, enhanced *EnhancedContext) {
	if enhanced == nil {
		return
	}

	if len(enhanced.GeoEntities) > 0 {
		entities[CategoryGeographic] = enhanced.GeoEntities
	} else if enhanced.InheritLocation && enhanced.Location != "" {
		for _, field := range geoFields {
			entities.Add(CategoryGeographic, Entity{
				Field:      field,
				Value:      enhanced.Location,
				SearchType: SearchContains,
			})
		}
	}

	if enhanced.InheritTime && enhanced.Timeframe != "" {
		entities.Add(CategoryTemporal, Entity{
			Field:      "create_time",
			Value:      enhanced.Timeframe,
			SearchType: SearchRawSQL,
		})
	}

	for _, filter := range enhanced.Filters {
		f := strings.ToLower(filter)
		if strings.Contains(f, "status_pending") || strings.Contains(f, "belum solve") {
			entities.Add(CategoryStatus, Entity{
				Field:      "business_status",
				Value:      "BusinessStatusInProgress",
				SearchType: SearchExact,
			})
			break
		}
	}
}

// extractDetailEntities finds ticket IDs and phone numbers. Local 08xx
// numbers are canonicalized to the 628 form, but only consulted when no
// 628 number matched so the same number never yields two entities. A bare
// digit run is the fuzzy last resort when nothing structural matched.
func extractDetailEntities(query string) []Entity {
	var details []Entity

	for _, m := range ticketRe.FindAllStringSubmatch(query, -1) {
		details = append(details, Entity{
			Field:      "order_id",
			Value:      strings.ToUpper(m[1]),
			SearchType: SearchExact,
			EntityType: TypeTicketID,
		})
	}

	msisdns := msisdn628Re.FindAllStringSubmatch(query, -1)
	for _, m := range msisdns {
		details = append(details, Entity{
			Field:      "customer_msisdn_create_ticket",
			Value:      m[1],
			SearchType: SearchExact,
			EntityType: TypeMSISDN,
		})
	}
	if len(msisdns) == 0 {
		for _, m := range msisdn08Re.FindAllStringSubmatch(query, -1) {
			details = append(details, Entity{
				Field:      "customer_msisdn_create_ticket",
				Value:      "62" + m[1][1:],
				SearchType: SearchExact,
				EntityType: TypeMSISDN,
			})
		}
	}

	if len(details) == 0 {
		if m := bareDigitRe.FindStringSubmatch(query); m != nil {
			details = append(details, Entity{
				Field:      "customer_msisdn_create_ticket",
				Value:      m[1],
				SearchType: SearchContains,
				EntityType: TypeMSISDNFuzzy,
			})
		}
	}

	return details
}

func extractGeographicEntities(lower string) []Entity {
	for _, ga := range geoAliases {
		if !strings.Contains(lower, ga.alias) {
			continue
		}
		entities := make([]Entity, 0, len(geoFields))
		for _, field := range geoFields {
			entities = append(entities, Entity{
				Field:      field,
				Value:      ga.canonical,
				SearchType: SearchContains,
			})
		}
		return entities
	}
	return nil
}

func extractTemporalEntity(lower string) (Entity, bool) {
	for _, tp := range temporalPhrases {
		if strings.Contains(lower, tp.phrase) {
			return Entity{
				Field:      "create_time",
				Value:      tp.rawSQL,
				SearchType: SearchRawSQL,
				GroupBy:    tp.groupBy,
			}, true
		}
	}
	return Entity{}, false
}

func extractValueForField(lower string, fm fieldMapping) string {
	if fm.searchType == SearchCategorical {
		for _, v := range fm.values {
			if strings.Contains(lower, strings.ToLower(v)) {
				return v
			}
		}
	}

	if strings.Contains(fm.field, "handset") || strings.Contains(fm.field, "device") {
		for _, name := range deviceNames {
			if strings.Contains(lower, name) {
				return strings.ToUpper(name)
			}
		}
	}

	if strings.Contains(fm.field, "status") {
		switch {
		case strings.Contains(lower, "open"):
			return "Open"
		case strings.Contains(lower, "closed"):
			return "Closed"
		case strings.Contains(lower, "progress"):
			return "BusinessStatusInProgress"
		case strings.Contains(lower, "resolved"):
			// The misspelled value is what the warehouse actually stores.
			return "BusinessStatusResovled"
		}
	}

	if strings.Contains(fm.field, "priority") {
		switch {
		case strings.Contains(lower, "high"):
			return "High"
		case strings.Contains(lower, "medium"):
			return "Medium"
		case strings.Contains(lower, "low"):
			return "Low"
		}
	}

	return ""
}
