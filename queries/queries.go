package queries

import (
	"embed"
	"fmt"
)

//go:embed insert/*.sql select/*.sql update/*.sql
var Files embed.FS

type InsertQueries struct {
	AnalysisRun string
}

type SelectQueries struct {
	DailyClosesBySymbol         string
	MostRecentTimestampBySymbol string
}

type UpdateQueries struct {
	AnalysisRun string
}

type QueryHelperStruct struct {
	Insert InsertQueries
	Select SelectQueries
	Update UpdateQueries
}

var QueryHelper = QueryHelperStruct{
	Insert: InsertQueries{
		AnalysisRun: "insert/analysis_run.sql",
	},
	Select: SelectQueries{
		DailyClosesBySymbol:         "select/daily_closes_by_symbol.sql",
		MostRecentTimestampBySymbol: "select/most_recent_timestamp_by_symbol.sql",
	},
	Update: UpdateQueries{
		AnalysisRun: "update/analysis_run.sql",
	},
}

func Get(path string) string {
	content, err := Files.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("error reading query file: %w", err))
	}

	return string(content)
}
