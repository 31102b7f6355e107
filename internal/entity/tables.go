package entity

// Warehouse columns that carry location information. An inherited or
// aliased location fans out to every one of these so any administrative
// level can satisfy the filter.
var geoFields = []string{
	"provinsi_create_ticket",
	"kabupaten_kota_create_ticket",
	"kecamatan_create_ticket",
	"desa_kelurahan_create_ticket",
	"customer_region_create_ticket",
}

type geoAlias struct {
	alias     string
	canonical string
}

// Colloquial location names, checked in order. Abbreviated Jakarta
// districts must come before the bare "jakarta" catch-all.
var geoAliases = []geoAlias{
	{"jakarta barat", "Jakarta Barat"},
	{"jakbar", "Jakarta Barat"},
	{"jakarta selatan", "Jakarta Selatan"},
	{"jaksel", "Jakarta Selatan"},
	{"jakarta timur", "Jakarta Timur"},
	{"jaktim", "Jakarta Timur"},
	{"jakarta utara", "Jakarta Utara"},
	{"jakut", "Jakarta Utara"},
	{"jakarta pusat", "Jakarta Pusat"},
	{"jakpus", "Jakarta Pusat"},
	{"jakarta", "Jakarta"},
	{"bandung", "Bandung"},
	{"surabaya", "Surabaya"},
}

type temporalPhrase struct {
	phrase  string
	rawSQL  string // warehouse-agnostic form, rewritten at SQL build time
	groupBy string
}

// Fixed time phrases that translate directly to a WHERE condition. The
// first matching phrase wins; anything else falls to the time resolver.
var temporalPhrases = []temporalPhrase{
	{"minggu ini", "create_time >= dateTrunc('week', CURRENT_DATE)", "DAY"},
	{"minggu lalu", "create_time >= (dateTrunc('week', CURRENT_DATE) - toIntervalWeek(1)) AND create_time < dateTrunc('week', CURRENT_DATE)", "DAY"},
	{"bulan ini", "create_time >= dateTrunc('month', CURRENT_DATE)", "WEEK"},
	{"bulan lalu", "create_time >= (dateTrunc('month', CURRENT_DATE) - toIntervalMonth(1)) AND create_time < dateTrunc('month', CURRENT_DATE)", "WEEK"},
	{"kemarin", "toDate(create_time) = (CURRENT_DATE - toIntervalDay(1))", "DAY"},
	{"hari ini", "toDate(create_time) = CURRENT_DATE", "DAY"},
}

type fieldMapping struct {
	field      string
	category   Category
	synonyms   []string
	searchType SearchType
	values     []string // categorical candidates, matched case-insensitively
}

// Generic field synonym dictionary. A field only fires when its category
// has not already been populated by a higher-priority rule, and only when
// a concrete value can be extracted from the query.
var fieldMappings = []fieldMapping{
	{
		field:      "business_status",
		category:   CategoryStatus,
		synonyms:   []string{"status", "open", "closed", "progress", "resolved"},
		searchType: SearchExact,
	},
	{
		field:      "priority_l2_assign",
		category:   CategoryStatus,
		synonyms:   []string{"priority", "prioritas"},
		searchType: SearchExact,
	},
	{
		field:      "handset_type_create_ticket",
		category:   CategoryDetail,
		synonyms:   []string{"handset", "device", "perangkat", "hp", "iphone", "samsung", "oppo", "xiaomi", "android"},
		searchType: SearchContains,
	},
	{
		field:      "customer_type_create_ticket",
		category:   CategoryDetail,
		synonyms:   []string{"consumer", "corporate", "tipe pelanggan"},
		searchType: SearchCategorical,
		values:     []string{"Consumer", "Corporate"},
	},
}

var deviceNames = []string{"iphone", "samsung", "oppo", "xiaomi", "android"}
