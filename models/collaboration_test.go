package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusNegotiating},
		{StatusPending, StatusAccepted},
		{StatusPending, StatusRejected},
		{StatusNegotiating, StatusAccepted},
		{StatusNegotiating, StatusRejected},
		{StatusAccepted, StatusCompleted},
		{StatusAccepted, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	forbidden := []struct{ from, to string }{
		{StatusPending, StatusCompleted},
		{StatusPending, StatusCancelled},
		{StatusNegotiating, StatusCompleted},
		{StatusAccepted, StatusPending},
		{StatusAccepted, StatusNegotiating},
		{StatusRejected, StatusAccepted},
		{StatusRejected, StatusPending},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusAccepted},
	}
	for _, tc := range forbidden {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be forbidden", tc.from, tc.to)
	}
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusRejected))
	assert.True(t, IsTerminalStatus(StatusCompleted))
	assert.True(t, IsTerminalStatus(StatusCancelled))
	assert.False(t, IsTerminalStatus(StatusPending))
	assert.False(t, IsTerminalStatus(StatusNegotiating))
	assert.False(t, IsTerminalStatus(StatusAccepted))
}

func TestOfferTermsValidate(t *testing.T) {
	t.Run("paid requires amount", func(t *testing.T) {
		terms := OfferTerms{CollaborationType: TypePaid}
		err := terms.Validate()
		assert.Error(t, err)
		assert.IsType(t, &ValidationError{}, err)
		assert.Contains(t, err.Error(), "paid_amount")
	})

	t.Run("free stay requires nights", func(t *testing.T) {
		terms := OfferTerms{CollaborationType: TypeFreeStay}
		assert.Error(t, terms.Validate())
	})

	t.Run("discount bounds", func(t *testing.T) {
		terms := OfferTerms{CollaborationType: TypeDiscount, DiscountPercentage: intPtr(120)}
		assert.Error(t, terms.Validate())

		terms.DiscountPercentage = intPtr(20)
		assert.NoError(t, terms.Validate())
	})

	t.Run("exactly one term group", func(t *testing.T) {
		terms := OfferTerms{
			CollaborationType: TypePaid,
			PaidAmount:        floatPtr(500),
			FreeStayMaxNights: intPtr(3),
		}
		assert.Error(t, terms.Validate())
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		terms := OfferTerms{CollaborationType: "Barter"}
		assert.Error(t, terms.Validate())
	})

	t.Run("valid paid offer", func(t *testing.T) {
		terms := OfferTerms{CollaborationType: TypePaid, PaidAmount: floatPtr(500)}
		assert.NoError(t, terms.Validate())
	})

	t.Run("travel dates must be ordered and paired", func(t *testing.T) {
		from := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

		terms := OfferTerms{
			CollaborationType: TypePaid,
			PaidAmount:        floatPtr(500),
			TravelDateFrom:    timePtr(from),
			TravelDateTo:      timePtr(to),
		}
		assert.Error(t, terms.Validate())

		terms.TravelDateTo = nil
		assert.Error(t, terms.Validate())

		terms.TravelDateTo = timePtr(from.Add(48 * time.Hour))
		assert.NoError(t, terms.Validate())
	})
}

func TestCounterparty(t *testing.T) {
	collab := Collaboration{
		Hotel:   Party{ID: "h1", Name: "Grand Palace", Location: "Paris, France"},
		Creator: Party{ID: "c1", Name: "Mia Travels", Location: "Bali, Indonesia"},
	}

	assert.Equal(t, "Mia Travels", collab.Counterparty(RoleHotel).Name)
	assert.Equal(t, "Grand Palace", collab.Counterparty(RoleCreator).Name)
}

func TestBothAgreed(t *testing.T) {
	now := time.Now()
	collab := Collaboration{}
	assert.False(t, collab.BothAgreed())

	collab.HotelAgreedAt = &now
	assert.False(t, collab.BothAgreed())

	collab.CreatorAgreedAt = &now
	assert.True(t, collab.BothAgreed())
}

func TestConsentLifecycle(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	t.Run("creation stamps only the initiator", func(t *testing.T) {
		hotel, creator := InitialConsent(RoleHotel, now)
		assert.NotNil(t, hotel)
		assert.Nil(t, creator)

		hotel, creator = InitialConsent(RoleCreator, now)
		assert.Nil(t, hotel)
		assert.NotNil(t, creator)
	})

	t.Run("counterparty accept completes consent", func(t *testing.T) {
		c := Collaboration{Status: StatusPending}
		c.HotelAgreedAt, c.CreatorAgreedAt = InitialConsent(RoleHotel, now)

		accepted := c.RecordConsent(RoleCreator, later)
		assert.True(t, accepted)
		assert.NotNil(t, c.HotelAgreedAt)
		assert.NotNil(t, c.CreatorAgreedAt)
		assert.True(t, CanTransition(c.Status, StatusAccepted))
	})

	t.Run("counter-offer clears both stamps regardless of prior values", func(t *testing.T) {
		c := Collaboration{Status: StatusNegotiating}
		c.HotelAgreedAt = &now
		c.CreatorAgreedAt = &later

		c.ResetConsent()
		assert.Nil(t, c.HotelAgreedAt)
		assert.Nil(t, c.CreatorAgreedAt)
	})

	t.Run("single accept after a counter-offer is not enough", func(t *testing.T) {
		c := Collaboration{Status: StatusNegotiating}
		c.HotelAgreedAt, c.CreatorAgreedAt = InitialConsent(RoleHotel, now)
		c.ResetConsent()

		accepted := c.RecordConsent(RoleCreator, later)
		assert.False(t, accepted, "the proposer must accept the revised terms too")
		assert.Nil(t, c.HotelAgreedAt)

		accepted = c.RecordConsent(RoleHotel, later)
		assert.True(t, accepted)
	})

	t.Run("decline from negotiating is terminal", func(t *testing.T) {
		assert.True(t, CanTransition(StatusNegotiating, StatusRejected))
		assert.True(t, IsTerminalStatus(StatusRejected))
	})
}

func TestNormalizeDecision(t *testing.T) {
	assert.Equal(t, StatusRejected, NormalizeDecision("declined"))
	assert.Equal(t, StatusRejected, NormalizeDecision("Declined"))
	assert.Equal(t, StatusAccepted, NormalizeDecision("accepted"))
}

func TestIsArchivedStatus(t *testing.T) {
	assert.True(t, IsArchivedStatus(StatusCompleted))
	assert.True(t, IsArchivedStatus(StatusCancelled))
	assert.True(t, IsArchivedStatus(StatusRejected))
	assert.False(t, IsArchivedStatus(StatusPending))
	assert.False(t, IsArchivedStatus(StatusNegotiating))
	assert.False(t, IsArchivedStatus(StatusAccepted))
}
