package ui

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func containsBlockChar(s string) bool {
	return strings.ContainsAny(s, sparklineBlocks)
}

func TestRenderSparkline_EmptyData(t *testing.T) {
	assert.Empty(t, RenderSparkline([]float64{}, 10))
	assert.Empty(t, RenderSparkline(nil, 10))
}

func TestRenderSparkline_InvalidWidth(t *testing.T) {
	assert.Empty(t, RenderSparkline([]float64{50, 60}, 0))
	assert.Empty(t, RenderSparkline([]float64{50, 60}, -5))
}

func TestRenderSparkline_OneBlockPerPoint(t *testing.T) {
	result := RenderSparkline([]float64{0, 25, 50, 75, 100}, 10)
	assert.True(t, containsBlockChar(result))
	assert.Equal(t, 5, len([]rune(stripANSI(result))))
}

func TestRenderSparkline_WidthTruncation(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	result := RenderSparkline(data, 5)
	assert.Equal(t, 5, len([]rune(stripANSI(result))))
}

func TestRenderSparkline_FlatLineSitsAtBaseline(t *testing.T) {
	result := stripANSI(RenderSparkline([]float64{0, 0, 0, 0}, 10))
	assert.Equal(t, strings.Repeat("▁", 4), result)
}

func TestRenderSparkline_RangeMapping(t *testing.T) {
	result := stripANSI(RenderSparkline([]float64{0, 100}, 10))
	runes := []rune(result)
	assert.Equal(t, '▁', runes[0])
	assert.Equal(t, '█', runes[1])
}

func TestRenderRateSparkline(t *testing.T) {
	result := RenderRateSparkline([]uint64{0, 500, 1000}, 10)
	assert.Equal(t, 3, len([]rune(stripANSI(result))))
	assert.Empty(t, RenderRateSparkline(nil, 10))
}

func TestUsageColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, UsageColor(10))
	assert.Equal(t, ColorInfo, UsageColor(50))
	assert.Equal(t, ColorWarning, UsageColor(75))
	assert.Equal(t, ColorError, UsageColor(90))
	assert.Equal(t, ColorError, UsageColor(100))
}

func TestRenderGauge(t *testing.T) {
	result := stripANSI(RenderGauge(50, 10))
	assert.Contains(t, result, "50.0%")
	assert.Equal(t, 5, strings.Count(result, "█"))
	assert.Equal(t, 5, strings.Count(result, "░"))
}

func TestRenderGaugeClamps(t *testing.T) {
	assert.Contains(t, stripANSI(RenderGauge(150, 10)), "100.0%")
	assert.Contains(t, stripANSI(RenderGauge(-5, 10)), "0.0%")
}
