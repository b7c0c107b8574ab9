package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/aegis-quant/pkg/config"
	"github.com/wonny/aegis-quant/pkg/httputil"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// Example demonstrates fetching JSON with retry
func Example() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
		Fetch:    config.FetchConfig{Timeout: 10 * time.Second},
	}
	log := logger.New(cfg)

	// Create HTTP client (SSOT)
	client := httputil.New(cfg, log).WithRetry(2, 500*time.Millisecond)

	var payload map[string]interface{}
	if err := client.GetJSON(context.Background(), "https://api.example.com/data", &payload); err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	fmt.Printf("Keys: %d\n", len(payload))
}
