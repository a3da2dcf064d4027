package main

import (
	"context"
	"fmt"
	"os"

	"github.com/apistats/statfetch/internal/clientlist"
	"github.com/apistats/statfetch/internal/config"
	"github.com/apistats/statfetch/internal/db/elasticsearch/client"
	"github.com/apistats/statfetch/internal/report"
	"github.com/apistats/statfetch/internal/statistics/service"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

func abort(message string) {
	fmt.Println(message)
	fmt.Println(config.Usage())
	os.Exit(1)
}

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		abort(err.Error())
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer logger.Sync()

	clientIds, err := clientlist.LoadIds(cfg.ClientFile)
	if err != nil {
		abort(err.Error())
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Host},
	})
	if err != nil {
		logger.Fatal("Failed to create elasticsearch client", zap.Error(err))
	}

	sc := client.NewSearchClientImpl(es)
	statisticsService := service.NewStatisticsService(sc, logger)
	clientList, err := statisticsService.CollectStatistics(context.Background(), cfg, clientIds)
	if err != nil {
		logger.Fatal("Failed to collect statistics", zap.Error(err))
	}

	rep := report.New(cfg.Filters, clientList)
	if err := report.Write(cfg.Output, rep); err != nil {
		abort(err.Error())
	}
	logger.Info("Successfully wrote statistics report",
		zap.String("output", cfg.Output),
		zap.Int("clients", len(clientIds)),
	)
}
