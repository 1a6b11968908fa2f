package airlevel

// Field labels of the fixed station layout.
const (
	FieldStation   = "监测站"
	FieldAQI       = "AQI"
	FieldLevel     = "空气质量等级"
	FieldPM25      = "PM2.5"
	FieldPM10      = "PM10"
	FieldPollutant = "首要污染物"

	NotAvailable = "N/A"
)

// FixedFields is the column order of a station table without usable headers.
var FixedFields = []string{FieldStation, FieldAQI, FieldLevel, FieldPM25, FieldPM10, FieldPollutant}

// Kind tells how a Record got its keys.
type Kind int

const (
	// HeaderMapped records are keyed by the labels of the table header row.
	HeaderMapped Kind = iota
	// Fixed records always hold the six FixedFields.
	Fixed
)

func (k Kind) String() string {
	switch k {
	case HeaderMapped:
		return "header"
	case Fixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Record is one station row. Keys keep the order they were first set in.
type Record struct {
	Kind Kind

	keys   []string
	values map[string]string
}

func NewRecord(kind Kind) *Record {
	return &Record{
		Kind:   kind,
		values: make(map[string]string, len(FixedFields)),
	}
}

// Set stores value under key. An existing key keeps its position.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string, len(FixedFields))
	}

	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}

	r.values[key] = value
}

func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value under key or NotAvailable.
func (r *Record) Value(key string) string {
	if v, ok := r.values[key]; ok {
		return v
	}

	return NotAvailable
}

func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)

	return keys
}

func (r *Record) Len() int {
	return len(r.keys)
}

func (r *Record) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}

	return m
}
