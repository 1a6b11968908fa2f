package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dreamerjackson/aircrawler/engine"
	"github.com/dreamerjackson/aircrawler/parse/airlevel"
	"github.com/stretchr/testify/assert"
)

func TestStationLine(t *testing.T) {
	r := airlevel.NewRecord(airlevel.HeaderMapped)
	r.Set(airlevel.FieldStation, "万寿西宫")
	r.Set(airlevel.FieldPM10, "70")
	r.Set(airlevel.FieldAQI, "50")
	r.Set("更新时间", "10:00")

	assert.Equal(t, "站点: 万寿西宫, AQI: 50, PM10: 70", StationLine(r))

	empty := airlevel.NewRecord(airlevel.HeaderMapped)
	assert.Equal(t, "站点: N/A", StationLine(empty))
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Phase(1, engine.Identity{ClassName: "c", Name: "n", ID: "1"})
	p.Cities([]airlevel.City{{Name: "北京", URL: "/beijing"}}, []string{"https://www.air-level.com/beijing"})
	p.Done(false)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"阶段一：c+n+1",
		"爬取结果：",
		"共爬取到 1 个城市:",
		"1. 北京: https://www.air-level.com/beijing",
		"",
		"爬取完成！",
	}, lines)
}
