package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staylink/collab-api/models"
)

func TestFlattenDeliverables(t *testing.T) {
	groups := []models.PlatformDeliverables{
		{
			Platform: "Instagram",
			Deliverables: []models.Deliverable{
				{ID: "d1", Type: "Story", Quantity: 3},
				{ID: "d2", Type: "Instagram Post", Quantity: 1, Completed: true},
			},
		},
		{
			Platform: "TikTok",
			Deliverables: []models.Deliverable{
				{ID: "d3", Type: "Video", Quantity: 2},
			},
		},
	}

	rows := FlattenDeliverables(groups)
	require.Len(t, rows, 3)

	assert.Equal(t, "d1", rows[0].ID)
	assert.Equal(t, "Instagram", rows[0].Platform)
	assert.Equal(t, "Instagram Story", rows[0].Label)

	assert.Equal(t, "d2", rows[1].ID)
	assert.Equal(t, "Instagram Post", rows[1].Label, "type already naming the platform is not prefixed again")

	assert.Equal(t, "d3", rows[2].ID)
	assert.Equal(t, "TikTok Video", rows[2].Label)
}

func TestFlattenDeliverablesEmpty(t *testing.T) {
	rows := FlattenDeliverables(nil)
	require.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestDeliverableProgress(t *testing.T) {
	t.Run("counts across platforms", func(t *testing.T) {
		groups := []models.PlatformDeliverables{
			{Platform: "Instagram", Deliverables: []models.Deliverable{
				{ID: "d1", Completed: true},
				{ID: "d2"},
			}},
			{Platform: "YouTube", Deliverables: []models.Deliverable{
				{ID: "d3", Completed: true},
				{ID: "d4", Completed: true},
			}},
		}

		p := DeliverableProgress(groups)
		assert.Equal(t, 3, p.Completed)
		assert.Equal(t, 4, p.Total)
		assert.Equal(t, 75.0, p.Percentage)
	})

	t.Run("empty checklist has zero percentage", func(t *testing.T) {
		p := DeliverableProgress(nil)
		assert.Equal(t, 0, p.Completed)
		assert.Equal(t, 0, p.Total)
		assert.Equal(t, 0.0, p.Percentage)
	})

	t.Run("all complete is exactly 100", func(t *testing.T) {
		groups := []models.PlatformDeliverables{
			{Platform: "Instagram", Deliverables: []models.Deliverable{
				{ID: "d1", Completed: true},
			}},
		}
		assert.Equal(t, 100.0, DeliverableProgress(groups).Percentage)
	})
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Instagram Reel", DisplayLabel("Instagram", "Reel"))
	assert.Equal(t, "Instagram Post", DisplayLabel("Instagram", "Instagram Post"))
	assert.Equal(t, "instagram post", DisplayLabel("Instagram", "instagram post"), "containment check is case-insensitive")
}
