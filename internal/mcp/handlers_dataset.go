package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	"demandcast/internal/ingest"
	"demandcast/internal/pipeline"
	"demandcast/internal/stats"
	"demandcast/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// previewRows is how many raw rows dataset_load echoes back.
const previewRows = 5

type DatasetLoadInput struct {
	Content string `json:"content,omitempty" jsonschema:"Raw text of a delimited file. Use instead of path."`
	Path    string `json:"path,omitempty" jsonschema:"Path to a .csv/.txt/.tsv or .xlsx file. Relative paths resolve against DATA_PATH."`
	Sheet   string `json:"sheet,omitempty" jsonschema:"Workbook sheet to read. Defaults to the first sheet."`
	Name    string `json:"name,omitempty" jsonschema:"Display name for inline content."`
}

type DatasetSummary struct {
	DatasetID             string       `json:"dataset_id"`
	Source                string       `json:"source"`
	Headers               []string     `json:"headers"`
	Rows                  int          `json:"rows"`
	SuggestedDateColumn   string       `json:"suggested_date_column"`
	SuggestedTargetColumn string       `json:"suggested_target_column"`
	Preview               []ingest.Row `json:"preview"`
}

type DatasetProfileInput struct {
	DatasetID       string `json:"dataset_id" jsonschema:"Id returned by dataset_load."`
	DateColumn      string `json:"date_column,omitempty" jsonschema:"Date column. Defaults to the suggested one."`
	TargetColumn    string `json:"target_column,omitempty" jsonschema:"Numeric column to forecast. Defaults to the suggested one."`
	MetricLabel     string `json:"metric_label,omitempty" jsonschema:"Unit shown in KPI names, e.g. units or cases."`
	MissingStrategy string `json:"missing_strategy,omitempty" jsonschema:"How to fill gaps: interpolate or forward."`
}

type ProfileData struct {
	DateColumn    string                `json:"date_column"`
	TargetColumn  string                `json:"target_column"`
	InvalidDates  int                   `json:"invalid_dates"`
	InvalidValues int                   `json:"invalid_values"`
	Profile       stats.Profile         `json:"profile"`
	KPIs          []pipeline.KPI        `json:"kpis"`
	Seasonal      stats.SeasonalProfile `json:"seasonal"`
	Histogram     stats.Histogram       `json:"histogram"`
	RollingWindow int                   `json:"rolling_window"`
}

type DatasetDropInput struct {
	DatasetID string `json:"dataset_id,omitempty" jsonschema:"Dataset to forget. Omit to list the loaded datasets."`
}

type DropData struct {
	Dropped  bool          `json:"dropped"`
	Datasets []DatasetInfo `json:"datasets"`
}

func (s *Server) handleDatasetLoad(ctx context.Context, req *mcp.CallToolRequest, in DatasetLoadInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	var (
		table  *ingest.Table
		source string
		err    error
	)

	switch {
	case in.Content != "" && in.Path != "":
		return nil, ResponseEnvelope{}, fmt.Errorf("pass either content or path, not both")
	case in.Content != "":
		source = in.Name
		if source == "" {
			source = "inline"
		}
		table, err = ingest.ParseCSV(in.Content)
	case in.Path != "":
		path := s.cfg.ResolvePath(in.Path)
		source = path
		if in.Sheet != "" {
			table, err = ingest.ReadWorkbook(path, in.Sheet)
		} else {
			table, err = ingest.ReadFile(path)
		}
	default:
		return nil, ResponseEnvelope{}, fmt.Errorf("either content or path is required")
	}
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	session := pipeline.NewSession(source, table)
	ds := s.store.Put(session)
	dateCol, targetCol := session.SuggestedColumns()

	log.Info().Str("dataset", ds.ID).Str("source", filepath.Base(source)).Int("rows", session.RowCount()).Msg("Dataset loaded")

	rows := session.Rows()
	return nil, WrapResponse(DatasetSummary{
		DatasetID:             ds.ID,
		Source:                source,
		Headers:               session.Headers(),
		Rows:                  session.RowCount(),
		SuggestedDateColumn:   dateCol,
		SuggestedTargetColumn: targetCol,
		Preview:               rows[:min(previewRows, len(rows))],
	}, nil), nil
}

func (s *Server) handleDatasetProfile(ctx context.Context, req *mcp.CallToolRequest, in DatasetProfileInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	ds, err := s.store.Get(in.DatasetID)
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	p := s.cfg.RunParams()
	p.DateColumn = in.DateColumn
	p.TargetColumn = in.TargetColumn
	if in.MetricLabel != "" {
		p.MetricLabel = in.MetricLabel
	}
	if in.MissingStrategy != "" {
		p.MissingStrategy = in.MissingStrategy
	}
	if err := p.Validate(); err != nil {
		return nil, ResponseEnvelope{}, err
	}

	prep, err := ds.Session.Prepare(p)
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	data := ProfileData{
		DateColumn:    prep.DateColumn,
		TargetColumn:  prep.TargetColumn,
		InvalidDates:  prep.InvalidDates,
		InvalidValues: prep.InvalidValues,
		Profile:       prep.Profile,
		KPIs:          pipeline.BuildKPIs(prep.Profile, p.MetricLabel),
		Seasonal:      prep.Seasonal,
		Histogram:     prep.Histogram,
		RollingWindow: prep.RollingWindow,
	}

	var charts []string
	if s.cfg.EnableMermaidCharts {
		charts = []string{
			visuals.GenerateSeasonalityChart(prep.Seasonal),
			visuals.GenerateHistogramChart(prep.Histogram),
		}
	}
	return nil, WrapResponse(data, prep.Warnings(), charts...), nil
}

func (s *Server) handleDatasetDrop(ctx context.Context, req *mcp.CallToolRequest, in DatasetDropInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	data := DropData{}
	if in.DatasetID != "" {
		data.Dropped = s.store.Drop(in.DatasetID)
		if !data.Dropped {
			return nil, ResponseEnvelope{}, &DatasetNotFoundError{ID: in.DatasetID}
		}
		log.Info().Str("dataset", in.DatasetID).Msg("Dataset dropped")
	}
	data.Datasets = s.store.List()
	return nil, WrapResponse(data, nil), nil
}
