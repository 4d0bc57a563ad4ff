package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staylink/collab-api/models"
)

func TestSplitPending(t *testing.T) {
	collabs := []models.Collaboration{
		{ID: "c1", Status: models.StatusPending, InitiatorType: models.RoleCreator},
		{ID: "c2", Status: models.StatusPending, InitiatorType: models.RoleHotel},
		{ID: "c3", Status: models.StatusAccepted, InitiatorType: models.RoleCreator},
		{ID: "c4", Status: models.StatusPending, InitiatorType: models.RoleCreator},
	}

	t.Run("hotel viewer", func(t *testing.T) {
		queues := SplitPending(collabs, models.RoleHotel)

		require.Len(t, queues.Received, 2)
		require.Len(t, queues.Sent, 1)
		assert.Equal(t, 2, queues.ReceivedCount)
		assert.Equal(t, 1, queues.SentCount)

		assert.Equal(t, "c1", queues.Received[0].ID)
		assert.Equal(t, "c4", queues.Received[1].ID)
		assert.Equal(t, "c2", queues.Sent[0].ID)

		assert.False(t, queues.Received[0].IsInitiator)
		assert.True(t, queues.Sent[0].IsInitiator)
	})

	t.Run("creator viewer sees the mirror image", func(t *testing.T) {
		queues := SplitPending(collabs, models.RoleCreator)

		assert.Equal(t, 1, queues.ReceivedCount)
		assert.Equal(t, 2, queues.SentCount)
		assert.Equal(t, "c2", queues.Received[0].ID)
	})

	t.Run("non-pending never appears in either queue", func(t *testing.T) {
		queues := SplitPending(collabs, models.RoleHotel)
		for _, c := range append(queues.Received, queues.Sent...) {
			assert.Equal(t, models.StatusPending, c.Status)
		}
	})

	t.Run("empty input yields empty non-nil queues", func(t *testing.T) {
		queues := SplitPending(nil, models.RoleHotel)
		require.NotNil(t, queues.Received)
		require.NotNil(t, queues.Sent)
		assert.Equal(t, 0, queues.ReceivedCount)
		assert.Equal(t, 0, queues.SentCount)
	})
}
