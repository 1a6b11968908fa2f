package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dreamerjackson/aircrawler/engine"
	"github.com/dreamerjackson/aircrawler/parse/airlevel"
)

var phaseNames = map[int]string{1: "阶段一", 2: "阶段二"}

// summaryFields are printed after the station name when a record has them.
var summaryFields = []string{
	airlevel.FieldAQI,
	airlevel.FieldLevel,
	airlevel.FieldPM25,
	airlevel.FieldPM10,
	airlevel.FieldPollutant,
}

// Printer writes the crawl progress as plain text lines.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Start(phase int) {
	if phase > 1 {
		p.printf("")
	}
	p.printf("开始执行%s爬取...", phaseNames[phase])
}

func (p *Printer) Phase(phase int, id engine.Identity) {
	p.printf("%s：%s+%s+%s", phaseNames[phase], id.ClassName, id.Name, id.ID)
	p.printf("爬取结果：")
}

func (p *Printer) Cities(cities []airlevel.City, urls []string) {
	p.printf("共爬取到 %d 个城市:", len(cities))
	for i, city := range cities {
		u := city.URL
		if i < len(urls) {
			u = urls[i]
		}
		p.printf("%d. %s: %s", i+1, city.Name, u)
	}
}

func (p *Printer) CityStart(index, total int, city airlevel.City, url string) {
	if index == 1 {
		p.printf("将爬取所有 %d 个城市的监测站数据", total)
	}
	p.printf("[%d/%d] 正在爬取城市: %s (%s)", index, total, city.Name, url)
}

func (p *Printer) Stations(city string, records []*airlevel.Record) {
	p.printf("城市 %s 共有 %d 个监测站:", city, len(records))
	for i, r := range records {
		p.printf("  %d. %s", i+1, StationLine(r))
	}
}

func (p *Printer) Skip(city string, reason string) {
	p.printf("城市 %s: %s，跳过该城市", city, reason)
}

func (p *Printer) Failure(msg string) {
	p.printf("%s", msg)
}

// Done prints the closing line of a run.
func (p *Printer) Done(interrupted bool) {
	p.printf("")
	if interrupted {
		p.printf("程序被用户中断")
		return
	}
	p.printf("爬取完成！")
}

// Summary prints the totals of a finished crawl.
func (p *Printer) Summary(result *engine.Result) {
	p.printf("")
	p.printf("共获取 %d 个城市的 %d 个监测站数据", result.Len(), result.StationCount())
}

// StationLine renders one station, listing only the fields the record holds.
func StationLine(r *airlevel.Record) string {
	var b strings.Builder
	b.WriteString("站点: ")
	b.WriteString(r.Value(airlevel.FieldStation))

	for _, key := range summaryFields {
		if v, ok := r.Get(key); ok {
			fmt.Fprintf(&b, ", %s: %s", key, v)
		}
	}

	return b.String()
}
