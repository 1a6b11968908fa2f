package airlevel

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// KeyCitiesMarker labels the "key cities" block of the landing page.
const KeyCitiesMarker = "重点城市"

var (
	ErrParse = errors.New("parse markup failed")

	sectionRe = regexp.MustCompile(`^[A-Z]\.`)
)

// City is a city name and the root-relative path of its detail page.
type City struct {
	Name string
	URL  string
}

// ExtractCities parses the landing page into a list of cities with unique names.
// Empty markup yields an empty list.
func ExtractCities(body []byte) ([]City, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return MergeCities(SectionCities(doc), KeyCities(doc), RankingCities(doc)), nil
}

// SectionCities collects the links around alphabetic section markers such as "A.".
func SectionCities(doc *goquery.Document) []City {
	var cities []City

	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		if !sectionRe.MatchString(strings.TrimSpace(s.Text())) {
			return
		}

		cities = appendLinks(cities, s.Parent().Find("a"))
	})

	return cities
}

// KeyCities collects links from the siblings following the key cities label.
func KeyCities(doc *goquery.Document) []City {
	var label *html.Node
	for _, root := range doc.Nodes {
		if label = findText(root, KeyCitiesMarker); label != nil {
			break
		}
	}

	if label == nil || label.Parent == nil {
		return nil
	}

	return appendLinks(nil, doc.FindNodes(label.Parent).NextAll().Find("a"))
}

// RankingCities takes the first link of every non-header row of every table.
func RankingCities(doc *goquery.Document) []City {
	var cities []City

	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() <= 1 {
			return
		}

		rows.Slice(1, goquery.ToEnd).Each(func(j int, row *goquery.Selection) {
			cities = appendLinks(cities, row.Find("a").First())
		})
	})

	return cities
}

// MergeCities concatenates groups in order, keeps the first city of each name
// and makes every URL root-relative.
func MergeCities(groups ...[]City) []City {
	seen := make(map[string]struct{})

	var merged []City
	for _, group := range groups {
		for _, c := range group {
			if _, ok := seen[c.Name]; ok {
				continue
			}
			seen[c.Name] = struct{}{}

			merged = append(merged, City{Name: c.Name, URL: NormalizePath(c.URL)})
		}
	}

	return merged
}

func NormalizePath(href string) string {
	if strings.HasPrefix(href, "/") {
		return href
	}

	return "/" + href
}

func appendLinks(cities []City, links *goquery.Selection) []City {
	links.Each(func(i int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		name := strings.TrimSpace(a.Text())
		if !ok || name == "" {
			return
		}

		cities = append(cities, City{Name: name, URL: strings.TrimSpace(href)})
	})

	return cities
}

// findText returns the first text node under n, in document order, containing sub.
func findText(n *html.Node, sub string) *html.Node {
	if n.Type == html.TextNode && strings.Contains(n.Data, sub) {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findText(c, sub); found != nil {
			return found
		}
	}

	return nil
}
