package dto

import "maumjari-counsel-be/pkg/report"

// ReportRequest carries a transcript the caller already rendered.
type ReportRequest struct {
	Date            string      `json:"date"`
	ChatHistory     string      `json:"chatHistory"`
	ChatCount       int         `json:"chatCount"`
	PreviousSession interface{} `json:"previousSession"`
}

// GenerateReportRequest lets the server load the day's transcript itself.
type GenerateReportRequest struct {
	Date            string      `json:"date"`
	PreviousSession interface{} `json:"previousSession"`
}

type ReportResponse = report.Report

type ChecklistResponse struct {
	Checklist      report.Checklist `json:"checklist"`
	Instructions   string           `json:"instructions"`
	CompletionTime string           `json:"completion_time"`
}

type ReportHealthResponse struct {
	Status      string   `json:"status"`
	Service     string   `json:"service"`
	Version     string   `json:"version"`
	ModelLoaded bool     `json:"model_loaded"`
	Endpoints   []string `json:"endpoints"`
}
