package model

import "time"

// RunRecord summarizes one reconciliation run for the optional MySQL
// history export.
type RunRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Router      string    `json:"router"`
	StartedAt   time.Time `json:"startedAt"`
	Peers       int       `json:"peers"`
	Reconfigure int       `json:"reconfigure"`
	Exceptions  int       `json:"exceptions"`
	Unrated     int       `json:"unrated"`
	Omissions   int       `json:"omissions"`
}

// ResultRecord is one persisted ReconciliationResult row, linked to its run.
type ResultRecord struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	RunID       uint    `gorm:"index" json:"runId"`
	ASN         int     `json:"asn"`
	Family      string  `json:"family"`
	Configured  int     `json:"configured"`
	Reported    int     `json:"reported"`
	Recommended int     `json:"recommended"`
	Multiplier  float64 `json:"multiplier"`
	Disposition string  `json:"disposition"`
}
