package engine

import "github.com/dreamerjackson/aircrawler/parse/airlevel"

// Reporter receives the human readable progress of a crawl.
type Reporter interface {
	Phase(phase int, id Identity)
	Cities(cities []airlevel.City, urls []string)
	CityStart(index, total int, city airlevel.City, url string)
	Stations(city string, records []*airlevel.Record)
	Skip(city string, reason string)
	Failure(msg string)
}

type nopReporter struct{}

func (nopReporter) Phase(int, Identity) {}
func (nopReporter) Cities([]airlevel.City, []string) {}
func (nopReporter) CityStart(int, int, airlevel.City, string) {}
func (nopReporter) Stations(string, []*airlevel.Record) {}
func (nopReporter) Skip(string, string) {}
func (nopReporter) Failure(string) {}
