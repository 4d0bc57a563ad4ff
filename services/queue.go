package services

import "github.com/staylink/collab-api/models"

// ============================================================================
// APPLICATION QUEUE RESOLVER
// ============================================================================

// ApplicationQueues splits a viewer's pending collaborations into requests
// they received and requests they sent. Both counts are always populated.
type ApplicationQueues struct {
	Received      []models.Collaboration `json:"received"`
	Sent          []models.Collaboration `json:"sent"`
	ReceivedCount int                    `json:"received_count"`
	SentCount     int                    `json:"sent_count"`
}

// SplitPending partitions pending collaborations by whether the viewer
// initiated them. Every pending collaboration lands in exactly one queue.
func SplitPending(collabs []models.Collaboration, viewerRole string) ApplicationQueues {
	queues := ApplicationQueues{
		Received: []models.Collaboration{},
		Sent:     []models.Collaboration{},
	}

	for _, c := range collabs {
		if c.Status != models.StatusPending {
			continue
		}
		if c.InitiatorType == viewerRole {
			c.IsInitiator = true
			queues.Sent = append(queues.Sent, c)
		} else {
			c.IsInitiator = false
			queues.Received = append(queues.Received, c)
		}
	}

	queues.ReceivedCount = len(queues.Received)
	queues.SentCount = len(queues.Sent)
	return queues
}
