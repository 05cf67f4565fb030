package models

// KPIReport holds the headline aggregates for one window.
type KPIReport struct {
	RowCount int  `json:"row_count"`
	HasData  bool `json:"has_data"`

	MeanPercentSustainable float64 `json:"mean_percent_sustainable"`
	TotalDistanceKm        float64 `json:"total_distance_km"`
	SustainableKm          float64 `json:"sustainable_km"`
	NonSustainableKm       float64 `json:"non_sustainable_km"`

	// Best-performing group by mean percent_sustainable. Ties resolve to
	// the first group in ascending sort order of group labels.
	BestGroup      string  `json:"best_group"`
	BestGroupValue float64 `json:"best_group_value"`
}

// TimeSeriesPoint is one (period, group) mean of the selected metric,
// ordered by period key ascending.
type TimeSeriesPoint struct {
	PeriodKey string  `json:"period_key"`
	Group     string  `json:"group"`
	Mean      float64 `json:"mean"`
	Count     int     `json:"count"`
}

// CompositionRow is the per-group mean distance of one movement kind.
type CompositionRow struct {
	Group  string       `json:"group"`
	Kind   ActivityKind `json:"kind"`
	MeanKm float64      `json:"mean_km"`
}

// CorrelationMatrix is a Pearson matrix over a fixed set of numeric
// columns, computed on pairwise-complete observations inside the window.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values,omitempty"`
	Counts  [][]int     `json:"counts,omitempty"`

	// InsufficientData is set when no column pair has at least two
	// complete observations; Values and Counts are nil in that case.
	InsufficientData bool `json:"insufficient_data"`
}

// BuildReport summarizes one dataset build.
type BuildReport struct {
	UsersScanned   int               `json:"users_scanned"`
	UsersParsed    int               `json:"users_parsed"`
	UserErrors     map[string]string `json:"user_errors,omitempty"`
	SegmentsKept   int               `json:"segments_kept"`
	RowsWeekly     int               `json:"rows_weekly"`
	RowsDaily      int               `json:"rows_daily"`
	FusedRows      int               `json:"fused_rows"`
	MissingSources []string          `json:"missing_sources,omitempty"`
	BuiltAt        string            `json:"built_at"`
}
