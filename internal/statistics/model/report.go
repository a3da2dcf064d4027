package model

// SeriesEntry is one date-histogram bucket of the report, with the bucket
// timestamp normalized to millisecond-precision ISO-8601.
type SeriesEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AggregationSeries maps an aggregation name (hoursum, daysum) to its series.
// Aggregations whose bucket list came back empty are not present.
type AggregationSeries map[string][]SeriesEntry

// EndpointSeries maps an endpoint value to the series of its aggregations.
type EndpointSeries map[string]AggregationSeries

type Report struct {
	Created    string                    `json:"created"`
	Filter     map[string]string         `json:"filter"`
	ClientList map[string]EndpointSeries `json:"clientList"`
}
