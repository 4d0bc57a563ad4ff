package services

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/staylink/collab-api/models"
)

// ============================================================================
// NEGOTIATION FILTER/SORT ENGINE
// ============================================================================

// Status filter values. "rejected" covers the stored rejected status; the API
// decision verb "declined" maps to the same rows.
const (
	FilterAll      = "all"
	FilterPending  = "pending"
	FilterAccepted = "accepted"
	FilterRejected = "rejected"
)

const (
	SortNewest = "newest"
	SortAlpha  = "a-z"
)

// FilterConfig drives one filter/sort pass. Search matches the counterparty
// only, resolved relative to ViewerRole.
type FilterConfig struct {
	Status     string
	Query      string
	Sort       string
	ViewerRole string
}

// ApplyFilters returns a new slice filtered and ordered per the config. The
// input is never mutated and identical inputs produce identical output.
func ApplyFilters(collabs []models.Collaboration, cfg FilterConfig) []models.Collaboration {
	result := []models.Collaboration{}

	query := strings.ToLower(strings.TrimSpace(cfg.Query))
	for _, c := range collabs {
		if !matchesStatus(c.Status, cfg.Status) {
			continue
		}
		if query != "" && !matchesCounterparty(&c, cfg.ViewerRole, query) {
			continue
		}
		result = append(result, c)
	}

	switch cfg.Sort {
	case SortAlpha:
		cl := collate.New(language.Und, collate.Loose)
		sort.SliceStable(result, func(i, j int) bool {
			a := result[i].Counterparty(cfg.ViewerRole).Name
			b := result[j].Counterparty(cfg.ViewerRole).Name
			if cmp := cl.CompareString(a, b); cmp != 0 {
				return cmp < 0
			}
			return result[i].ID < result[j].ID
		})
	default: // newest
		sort.SliceStable(result, func(i, j int) bool {
			if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
				return result[i].CreatedAt.After(result[j].CreatedAt)
			}
			return result[i].ID < result[j].ID
		})
	}

	return result
}

func matchesStatus(status, filter string) bool {
	switch filter {
	case "", FilterAll:
		return true
	case FilterRejected:
		return status == models.StatusRejected
	default:
		return status == filter
	}
}

// matchesCounterparty checks the other party's name and location only. A
// hotel searching "bali" must never match its own location.
func matchesCounterparty(c *models.Collaboration, viewerRole, query string) bool {
	partner := c.Counterparty(viewerRole)
	return strings.Contains(strings.ToLower(partner.Name), query) ||
		strings.Contains(strings.ToLower(partner.Location), query)
}
