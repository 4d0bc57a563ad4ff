package services

import (
	"strings"

	"github.com/staylink/collab-api/models"
)

// ============================================================================
// DELIVERABLES LEDGER
// ============================================================================

// DeliverableRow is one flattened checklist row, ready for display.
type DeliverableRow struct {
	Platform string `json:"platform"`
	Label    string `json:"label"`
	models.Deliverable
}

// FlattenDeliverables turns the platform-grouped checklist into a single
// ordered list, preserving platform order then deliverable order.
func FlattenDeliverables(groups []models.PlatformDeliverables) []DeliverableRow {
	rows := []DeliverableRow{}
	for _, group := range groups {
		for _, d := range group.Deliverables {
			rows = append(rows, DeliverableRow{
				Platform:    group.Platform,
				Label:       DisplayLabel(group.Platform, d.Type),
				Deliverable: d,
			})
		}
	}
	return rows
}

type Progress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// DeliverableProgress counts completed deliverables across all platforms.
// Percentage is 0 for an empty checklist.
func DeliverableProgress(groups []models.PlatformDeliverables) Progress {
	var p Progress
	for _, group := range groups {
		for _, d := range group.Deliverables {
			p.Total++
			if d.Completed {
				p.Completed++
			}
		}
	}
	if p.Total > 0 {
		p.Percentage = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}

// DisplayLabel prefixes the deliverable type with its platform unless the type
// already names it, avoiding labels like "Instagram Instagram Post".
func DisplayLabel(platform, deliverableType string) string {
	if strings.Contains(strings.ToLower(deliverableType), strings.ToLower(platform)) {
		return deliverableType
	}
	return platform + " " + deliverableType
}
