// Package domain holds the data contracts shared between the report
// pipeline and the exporter.
package domain

import "time"

// MachineSummary is one aggregated report row: a machine that passed the
// allow-list and the WPCS threshold.
type MachineSummary struct {
	Machine      string
	LastWorkDate time.Time
	WorkedQty    float64
	WPCQty       float64
	WPCSPercent  float64
}

// GrandTotal rolls up the surviving machine summaries. It is computed from
// the post-threshold rows, never from the raw data.
type GrandTotal struct {
	WorkedQty   float64
	WPCQty      float64
	WPCSPercent float64
}
