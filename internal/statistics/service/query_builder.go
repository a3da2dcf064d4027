package service

import (
	"sort"
	"time"

	"github.com/apistats/statfetch/internal/config"
)

const timestampField = "@timestamp"
const clientIdField = "client_id"
const histogramTimeZone = "Europe/Berlin"

const HourlyAggregation = "hoursum"
const DailyAggregation = "daysum"

// Sentinel all-time bounds. The backend narrows these through its own default
// search window, so the effective range is backend-defined, not the literal
// ten-millennia span. See DESIGN.md before changing.
const allTimeFrom = "2000-01-01"
const allTimeTo = "9999-12-31"

const dateOnlyFormat = "2006-01-02"

func buildDateRange(monthly bool, now time.Time) (string, string) {
	if monthly {
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return firstOfMonth.Format(dateOnlyFormat), now.Format(dateOnlyFormat)
	}
	return allTimeFrom, allTimeTo
}

// buildStatisticsQuery constructs the full request body for one
// (client, endpoint) pair: the shared range and filter clauses plus the two
// pair-specific match clauses, and the fixed hourly/daily histograms. Each
// call builds a fresh value, so pairs never share query state.
func buildStatisticsQuery(
	cfg *config.Config,
	clientId string,
	endpointField string,
	endpointValue string,
	now time.Time,
) map[string]interface{} {
	fromDate, toDate := buildDateRange(cfg.Monthly, now)
	filterClauses := []map[string]interface{}{
		{
			"range": map[string]interface{}{
				timestampField: map[string]interface{}{
					"gte": fromDate,
					"lte": toDate,
				},
			},
		},
	}
	for _, field := range sortedKeys(cfg.Filters) {
		filterClauses = append(filterClauses, map[string]interface{}{
			"match_phrase": map[string]interface{}{
				field: cfg.Filters[field],
			},
		})
	}
	filterClauses = append(filterClauses,
		map[string]interface{}{
			"match_phrase": map[string]interface{}{
				clientIdField: clientId,
			},
		},
		map[string]interface{}{
			"match_phrase": map[string]interface{}{
				endpointField: endpointValue,
			},
		},
	)

	return map[string]interface{}{
		"size": 0,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filterClauses,
			},
		},
		"aggs": map[string]interface{}{
			HourlyAggregation: buildDateHistogramAggregation("1h"),
			DailyAggregation:  buildDateHistogramAggregation("1d"),
		},
	}
}

func buildDateHistogramAggregation(interval string) map[string]interface{} {
	return map[string]interface{}{
		"date_histogram": map[string]interface{}{
			"field":             timestampField,
			"calendar_interval": interval,
			"time_zone":         histogramTimeZone,
			"min_doc_count":     0,
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
