package report

import (
	"fmt"
	"os"
	"time"

	"github.com/apistats/statfetch/internal/statistics/model"
	"github.com/bytedance/sonic"
)

const createdFormat = "2006-01-02T15:04:05.000Z07:00"

// New stamps the collected series with the creation time. Everything besides
// created is deterministic for identical inputs.
func New(filter map[string]string, clientList map[string]model.EndpointSeries) model.Report {
	return model.Report{
		Created:    time.Now().UTC().Format(createdFormat),
		Filter:     filter,
		ClientList: clientList,
	}
}

// Write serializes the report as pretty-printed JSON with sorted object keys,
// so reruns diff cleanly, and writes it in a single operation.
func Write(path string, rep model.Report) error {
	data, err := sonic.ConfigStd.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}
