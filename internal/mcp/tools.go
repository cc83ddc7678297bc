package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

func (s *Server) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "dataset_load",
		Description: "Parse a delimited text table (CSV, semicolon, tab or pipe separated) or an .xlsx workbook and keep it for later calls. " +
			"Pass either 'content' (the file text) or 'path' (relative paths resolve against DATA_PATH). " +
			"Returns a dataset_id, the column headers, the row count and suggested date and target columns. " +
			"Guidance: call 'dataset_profile' next to check granularity and gaps before forecasting.",
	}, s.handleDatasetLoad)

	mcp.AddTool(server, &mcp.Tool{
		Name: "dataset_profile",
		Description: "Aggregate a loaded dataset to one value per day, regularize it at the inferred step, fill gaps and describe it: " +
			"observations, granularity, mean, median, standard deviation, coefficient of variation, outliers, filled periods, " +
			"average by weekday or month, and a 12-bin histogram. Does not forecast.",
	}, s.handleDatasetProfile)

	mcp.AddTool(server, &mcp.Tool{
		Name: "forecast_run",
		Description: "Benchmark Holt linear trend, seasonal naive and trend + seasonal index on a holdout, pick the lowest MAE " +
			"(or the model you name) and forecast 'horizon' periods ahead from the whole history. Needs at least 12 regular periods. " +
			"Forecasts are clipped at zero and rounded to 2 decimals. " +
			"STRICT GUARDRAIL: report the numbers the tool returns; do not extrapolate beyond the horizon or invent confidence intervals.",
	}, s.handleForecastRun)

	mcp.AddTool(server, &mcp.Tool{
		Name: "forecast_backtest",
		Description: "Perform a Walk-Forward Analysis: refit one model at successive past cut points and score the following 'horizon' periods. " +
			"Use it to check whether the model chosen by 'forecast_run' is stable over time, not just on the last holdout.",
	}, s.handleForecastBacktest)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "forecast_models",
		Description: "List the model ids accepted by 'forecast_run' and 'forecast_backtest', with a short description of each.",
	}, s.handleForecastModels)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dataset_drop",
		Description: "Forget a loaded dataset. Without a dataset_id, lists the datasets currently held.",
	}, s.handleDatasetDrop)
}
