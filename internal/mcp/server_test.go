package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := s.Build().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestServer_ListTools(t *testing.T) {
	cs := connect(t, newTestServer(t, false))

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"dataset_load", "dataset_profile", "forecast_run",
		"forecast_backtest", "forecast_models", "dataset_drop",
	}, names)
}

func TestServer_LoadThenForecast(t *testing.T) {
	cs := connect(t, newTestServer(t, false))
	ctx := context.Background()

	loaded, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "dataset_load",
		Arguments: map[string]any{"content": mockCSV("mild", 40)},
	})
	require.NoError(t, err)
	require.False(t, loaded.IsError)

	var load struct {
		Data DatasetSummary `json:"data"`
	}
	decode(t, loaded.StructuredContent, &load)
	require.NotEmpty(t, load.Data.DatasetID)

	run, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "forecast_run",
		Arguments: map[string]any{"dataset_id": load.Data.DatasetID, "horizon": 5},
	})
	require.NoError(t, err)
	require.False(t, run.IsError)

	var out struct {
		Data struct {
			Forecast []struct {
				Date  string  `json:"date"`
				Value float64 `json:"value"`
			} `json:"forecast"`
			ChosenModel string `json:"chosen_model"`
		} `json:"data"`
	}
	decode(t, run.StructuredContent, &out)
	assert.Len(t, out.Data.Forecast, 5)
	assert.NotEmpty(t, out.Data.ChosenModel)
}

func TestServer_ToolErrorsAreReported(t *testing.T) {
	cs := connect(t, newTestServer(t, false))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "forecast_run",
		Arguments: map[string]any{"dataset_id": "unknown"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

// decode round-trips structured content, which arrives as generic JSON on the client side.
func decode(t *testing.T, v any, out any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}
