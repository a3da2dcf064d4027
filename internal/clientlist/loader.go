package clientlist

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

type Client struct {
	Id string `json:"id"`
}

// LoadIds reads a JSON array of client records and extracts their ids,
// preserving file order.
func LoadIds(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client list %s: %w", path, err)
	}
	var clients []Client
	if err := sonic.Unmarshal(data, &clients); err != nil {
		return nil, fmt.Errorf("failed to parse client list %s: %w", path, err)
	}
	ids := make([]string, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.Id)
	}
	return ids, nil
}
