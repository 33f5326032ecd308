package domain

import "time"

// Report represents a complete analysis report for the terminal runtime.
type Report struct {
	Title    string
	Period   TimePeriod
	Sections []ReportSection
}

// TimePeriod represents the time range a report covers.
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}

// ReportSection represents a logical section in the report.
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents one row of detailed information within a section.
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
