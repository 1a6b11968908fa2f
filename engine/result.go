package engine

import "github.com/dreamerjackson/aircrawler/parse/airlevel"

// Result maps city names to their stations in the order cities were crawled.
type Result struct {
	cities   []string
	stations map[string][]*airlevel.Record
}

func NewResult() *Result {
	return &Result{stations: make(map[string][]*airlevel.Record)}
}

func (r *Result) Add(city string, records []*airlevel.Record) {
	if _, ok := r.stations[city]; !ok {
		r.cities = append(r.cities, city)
	}

	r.stations[city] = records
}

func (r *Result) Cities() []string {
	cities := make([]string, len(r.cities))
	copy(cities, r.cities)

	return cities
}

func (r *Result) Stations(city string) []*airlevel.Record {
	return r.stations[city]
}

func (r *Result) Len() int {
	return len(r.cities)
}

// StationCount sums the stations of every city.
func (r *Result) StationCount() int {
	n := 0
	for _, records := range r.stations {
		n += len(records)
	}

	return n
}
