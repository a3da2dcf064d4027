package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apistats/statfetch/internal/config"
	"github.com/apistats/statfetch/internal/db/elasticsearch/client"
	esModel "github.com/apistats/statfetch/internal/db/elasticsearch/model"
	"github.com/apistats/statfetch/internal/statistics/model"
	"go.uber.org/zap"
)

const iso8601Millis = "2006-01-02T15:04:05.000Z07:00"

var aggregationNames = []string{HourlyAggregation, DailyAggregation}

type StatisticsService struct {
	sc     client.SearchClient
	logger *zap.Logger
}

func NewStatisticsService(sc client.SearchClient, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{
		sc:     sc,
		logger: logger,
	}
}

// CollectStatistics issues one search per (client, endpoint value) pair,
// strictly one at a time, and assembles the per-client series mapping. The
// first failed search aborts the whole run so no partial report can be
// persisted downstream.
func (ss *StatisticsService) CollectStatistics(
	ctx context.Context,
	cfg *config.Config,
	clientIds []string,
) (map[string]model.EndpointSeries, error) {
	now := time.Now()
	clientList := make(map[string]model.EndpointSeries, len(clientIds))
	for _, clientId := range clientIds {
		endpointSeries := make(model.EndpointSeries)
		for _, endpointField := range sortedKeys(cfg.Endpoints) {
			for _, endpointValue := range cfg.Endpoints[endpointField] {
				series, err := ss.fetchPairStatistics(ctx, cfg, clientId, endpointField, endpointValue, now)
				if err != nil {
					ss.logger.Error("Failed to fetch statistics for pair",
						zap.String("client_id", clientId),
						zap.String("endpoint", endpointValue),
						zap.Error(err),
					)
					return nil, err
				}
				endpointSeries[endpointValue] = series
			}
		}
		clientList[clientId] = endpointSeries
	}
	return clientList, nil
}

func (ss *StatisticsService) fetchPairStatistics(
	ctx context.Context,
	cfg *config.Config,
	clientId string,
	endpointField string,
	endpointValue string,
	now time.Time,
) (model.AggregationSeries, error) {
	query := buildStatisticsQuery(cfg, clientId, endpointField, endpointValue, now)
	queryJson, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal statistics query: %w", err)
	}
	aggregations, err := ss.sc.SearchAggregations(ctx, string(queryJson), nil)
	if err != nil {
		return nil, err
	}
	series := make(model.AggregationSeries)
	for _, name := range aggregationNames {
		entries := bucketsToSeries(aggregations[name].Buckets)
		if len(entries) > 0 {
			series[name] = entries
		}
	}
	return series, nil
}

// bucketsToSeries keeps every returned bucket, zero-count ones included; only
// an empty bucket list yields an empty series.
func bucketsToSeries(buckets []esModel.DateBucket) []model.SeriesEntry {
	entries := make([]model.SeriesEntry, 0, len(buckets))
	for _, bucket := range buckets {
		date := bucket.KeyAsString
		if parsed, err := time.Parse(time.RFC3339, bucket.KeyAsString); err == nil {
			date = parsed.Format(iso8601Millis)
		}
		entries = append(entries, model.SeriesEntry{
			Date:  date,
			Count: bucket.DocCount,
		})
	}
	return entries
}
