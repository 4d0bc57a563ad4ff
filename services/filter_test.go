package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staylink/collab-api/models"
)

func filterFixtures() []models.Collaboration {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []models.Collaboration{
		{
			ID:        "c1",
			Status:    models.StatusPending,
			Hotel:     models.Party{Name: "Bali Beach Resort", Location: "Bali, Indonesia"},
			Creator:   models.Party{Name: "Zara Explores", Location: "Lisbon, Portugal"},
			CreatedAt: base,
		},
		{
			ID:        "c2",
			Status:    models.StatusAccepted,
			Hotel:     models.Party{Name: "Alpine Lodge", Location: "Zermatt, Switzerland"},
			Creator:   models.Party{Name: "Adam Films", Location: "Berlin, Germany"},
			CreatedAt: base.Add(2 * time.Hour),
		},
		{
			ID:        "c3",
			Status:    models.StatusRejected,
			Hotel:     models.Party{Name: "City Central", Location: "Paris, France"},
			Creator:   models.Party{Name: "mia.travels", Location: "Ubud, Bali"},
			CreatedAt: base.Add(time.Hour),
		},
	}
}

func TestApplyFiltersStatus(t *testing.T) {
	collabs := filterFixtures()

	t.Run("all keeps everything", func(t *testing.T) {
		assert.Len(t, ApplyFilters(collabs, FilterConfig{Status: FilterAll, ViewerRole: models.RoleHotel}), 3)
	})

	t.Run("empty status behaves like all", func(t *testing.T) {
		assert.Len(t, ApplyFilters(collabs, FilterConfig{ViewerRole: models.RoleHotel}), 3)
	})

	t.Run("pending", func(t *testing.T) {
		result := ApplyFilters(collabs, FilterConfig{Status: FilterPending, ViewerRole: models.RoleHotel})
		require.Len(t, result, 1)
		assert.Equal(t, "c1", result[0].ID)
	})

	t.Run("rejected selects declined collaborations", func(t *testing.T) {
		result := ApplyFilters(collabs, FilterConfig{Status: FilterRejected, ViewerRole: models.RoleHotel})
		require.Len(t, result, 1)
		assert.Equal(t, "c3", result[0].ID)
	})
}

func TestApplyFiltersSearch(t *testing.T) {
	collabs := filterFixtures()

	t.Run("matches counterparty name", func(t *testing.T) {
		result := ApplyFilters(collabs, FilterConfig{Query: "zara", ViewerRole: models.RoleHotel})
		require.Len(t, result, 1)
		assert.Equal(t, "c1", result[0].ID)
	})

	t.Run("matches counterparty location only", func(t *testing.T) {
		// c1's hotel is in Bali, but a hotel viewer searching "bali" must
		// only hit c3, whose creator lives there.
		result := ApplyFilters(collabs, FilterConfig{Query: "bali", ViewerRole: models.RoleHotel})
		require.Len(t, result, 1)
		assert.Equal(t, "c3", result[0].ID)
	})

	t.Run("creator viewer searches hotels", func(t *testing.T) {
		result := ApplyFilters(collabs, FilterConfig{Query: "bali", ViewerRole: models.RoleCreator})
		require.Len(t, result, 1)
		assert.Equal(t, "c1", result[0].ID)
	})

	t.Run("query is trimmed and case-insensitive", func(t *testing.T) {
		result := ApplyFilters(collabs, FilterConfig{Query: "  ALPINE ", ViewerRole: models.RoleCreator})
		require.Len(t, result, 1)
		assert.Equal(t, "c2", result[0].ID)
	})
}

func TestApplyFiltersSort(t *testing.T) {
	collabs := filterFixtures()

	t.Run("newest first by default", func(t *testing.T) {
		result := ApplyFilters(collabs, FilterConfig{ViewerRole: models.RoleHotel})
		require.Len(t, result, 3)
		assert.Equal(t, []string{"c2", "c3", "c1"}, []string{result[0].ID, result[1].ID, result[2].ID})
	})

	t.Run("a-z is case-insensitive on counterparty name", func(t *testing.T) {
		result := ApplyFilters(collabs, FilterConfig{Sort: SortAlpha, ViewerRole: models.RoleHotel})
		require.Len(t, result, 3)

		names := []string{
			result[0].Counterparty(models.RoleHotel).Name,
			result[1].Counterparty(models.RoleHotel).Name,
			result[2].Counterparty(models.RoleHotel).Name,
		}
		assert.Equal(t, []string{"Adam Films", "mia.travels", "Zara Explores"}, names)
	})

	t.Run("identical inputs produce identical output", func(t *testing.T) {
		cfg := FilterConfig{Sort: SortAlpha, ViewerRole: models.RoleHotel}
		first := ApplyFilters(collabs, cfg)
		second := ApplyFilters(collabs, cfg)
		assert.Equal(t, first, second)
	})

	t.Run("input slice is never mutated", func(t *testing.T) {
		before := filterFixtures()
		ApplyFilters(before, FilterConfig{Sort: SortAlpha, ViewerRole: models.RoleHotel})
		assert.Equal(t, filterFixtures(), before)
	})
}
