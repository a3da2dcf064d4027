package service

import (
	"testing"
	"time"

	"github.com/apistats/statfetch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStatisticsQuery(t *testing.T) {
	cfg := &config.Config{
		Filters:   map[string]string{"stage": "prod", "gateway": "edge"},
		Endpoints: map[string][]string{"path": {"/orders"}},
	}
	now := time.Date(2023, 5, 17, 14, 30, 0, 0, time.UTC)

	t.Run("Contains one range clause plus one match clause per filter entry and pair", func(t *testing.T) {
		query := buildStatisticsQuery(cfg, "client-a", "path", "/orders", now)
		clauses := getFilterClauses(t, query)
		assert.Len(t, clauses, 1+len(cfg.Filters)+2)
		assert.Contains(t, clauses[0], "range")
		for _, clause := range clauses[1:] {
			assert.Contains(t, clause, "match_phrase")
		}
	})

	t.Run("Differs between pairs only in the client and endpoint clauses", func(t *testing.T) {
		firstQuery := buildStatisticsQuery(cfg, "client-a", "path", "/orders", now)
		secondQuery := buildStatisticsQuery(cfg, "client-b", "path", "/invoices", now)
		firstClauses := getFilterClauses(t, firstQuery)
		secondClauses := getFilterClauses(t, secondQuery)
		shared := len(firstClauses) - 2
		assert.Equal(t, firstClauses[:shared], secondClauses[:shared])
		assert.Equal(t,
			map[string]interface{}{clientIdField: "client-a"},
			firstClauses[shared]["match_phrase"],
		)
		assert.Equal(t,
			map[string]interface{}{"path": "/invoices"},
			secondClauses[shared+1]["match_phrase"],
		)
	})

	t.Run("Requests no hits and both fixed histograms", func(t *testing.T) {
		query := buildStatisticsQuery(cfg, "client-a", "path", "/orders", now)
		assert.Equal(t, 0, query["size"])
		aggs, ok := query["aggs"].(map[string]interface{})
		require.True(t, ok)
		hourly := getDateHistogram(t, aggs, HourlyAggregation)
		daily := getDateHistogram(t, aggs, DailyAggregation)
		assert.Equal(t, "1h", hourly["calendar_interval"])
		assert.Equal(t, "1d", daily["calendar_interval"])
		for _, histogram := range []map[string]interface{}{hourly, daily} {
			assert.Equal(t, timestampField, histogram["field"])
			assert.Equal(t, histogramTimeZone, histogram["time_zone"])
			assert.Equal(t, 0, histogram["min_doc_count"])
		}
	})
}

func TestBuildDateRange(t *testing.T) {
	now := time.Date(2023, 5, 17, 14, 30, 0, 0, time.UTC)

	t.Run("Monthly mode spans the first of the current month through today", func(t *testing.T) {
		fromDate, toDate := buildDateRange(true, now)
		assert.Equal(t, "2023-05-01", fromDate)
		assert.Equal(t, "2023-05-17", toDate)
	})

	t.Run("Default mode uses the sentinel all-time bounds", func(t *testing.T) {
		fromDate, toDate := buildDateRange(false, now)
		assert.Equal(t, allTimeFrom, fromDate)
		assert.Equal(t, allTimeTo, toDate)
	})
}

func getFilterClauses(t *testing.T, query map[string]interface{}) []map[string]interface{} {
	boolQuery, ok := query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	require.True(t, ok)
	clauses, ok := boolQuery["filter"].([]map[string]interface{})
	require.True(t, ok)
	return clauses
}

func getDateHistogram(t *testing.T, aggs map[string]interface{}, name string) map[string]interface{} {
	aggregation, ok := aggs[name].(map[string]interface{})
	require.True(t, ok)
	histogram, ok := aggregation["date_histogram"].(map[string]interface{})
	require.True(t, ok)
	return histogram
}
