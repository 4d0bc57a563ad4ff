package models

import (
	"strings"
	"time"
)

// ============================================================================
// COLLABORATION MODEL
// ============================================================================

// Collaboration statuses. rejected, completed and cancelled are terminal.
const (
	StatusPending     = "pending"
	StatusNegotiating = "negotiating"
	StatusAccepted    = "accepted"
	StatusRejected    = "rejected"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
)

// Collaboration types and their required term field.
const (
	TypeFreeStay = "Free Stay"
	TypePaid     = "Paid"
	TypeDiscount = "Discount"
)

// User roles. The initiator_type column stores one of these.
const (
	RoleHotel   = "hotel"
	RoleCreator = "creator"
)

// statusTransitions is the full lifecycle table. An edge missing here is an
// InvalidStateTransition.
var statusTransitions = map[string][]string{
	StatusPending:     {StatusNegotiating, StatusAccepted, StatusRejected},
	StatusNegotiating: {StatusAccepted, StatusRejected},
	StatusAccepted:    {StatusCompleted, StatusCancelled},
	StatusRejected:    {},
	StatusCompleted:   {},
	StatusCancelled:   {},
}

// CanTransition reports whether the lifecycle allows moving from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether a status admits no further transitions.
func IsTerminalStatus(status string) bool {
	return len(statusTransitions[status]) == 0
}

// Party is the normalized projection of one side of a collaboration.
type Party struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

type Deliverable struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Quantity    int        `json:"quantity"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type PlatformDeliverables struct {
	Platform     string        `json:"platform"`
	Deliverables []Deliverable `json:"deliverables"`
}

type Collaboration struct {
	ID            string `json:"id"`
	HotelID       string `json:"hotel_id"`
	CreatorID     string `json:"creator_id"`
	Hotel         Party  `json:"hotel"`
	Creator       Party  `json:"creator"`
	Status        string `json:"status"`
	InitiatorType string `json:"initiator_type"`
	// IsInitiator is derived per viewer, never stored.
	IsInitiator bool `json:"is_initiator"`

	CollaborationType  string   `json:"collaboration_type"`
	FreeStayMaxNights  *int     `json:"free_stay_max_nights,omitempty"`
	PaidAmount         *float64 `json:"paid_amount,omitempty"`
	DiscountPercentage *int     `json:"discount_percentage,omitempty"`

	TravelDateFrom    *time.Time `json:"travel_date_from,omitempty"`
	TravelDateTo      *time.Time `json:"travel_date_to,omitempty"`
	PreferredDateFrom *time.Time `json:"preferred_date_from,omitempty"`
	PreferredDateTo   *time.Time `json:"preferred_date_to,omitempty"`

	PlatformDeliverables []PlatformDeliverables `json:"platform_deliverables"`

	HotelAgreedAt   *time.Time `json:"hotel_agreed_at,omitempty"`
	CreatorAgreedAt *time.Time `json:"creator_agreed_at,omitempty"`

	// HasRated is derived per viewer; meaningful only once completed.
	HasRated bool `json:"has_rated"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Counterparty returns the other side of the collaboration relative to the
// viewer's role. All search, sort and display paths go through this single
// branch point.
func (c *Collaboration) Counterparty(viewerRole string) Party {
	if viewerRole == RoleHotel {
		return c.Creator
	}
	return c.Hotel
}

// PartyIDFor returns the user id occupying the given role.
func (c *Collaboration) PartyIDFor(role string) string {
	if role == RoleHotel {
		return c.HotelID
	}
	return c.CreatorID
}

// BothAgreed reports the bilateral-consent condition.
func (c *Collaboration) BothAgreed() bool {
	return c.HotelAgreedAt != nil && c.CreatorAgreedAt != nil
}

// InitialConsent returns the agreed-at pair for a new collaboration. Creating
// a request is consenting to its terms, so the initiator's side is stamped.
func InitialConsent(initiatorRole string, now time.Time) (hotelAgreedAt, creatorAgreedAt *time.Time) {
	if initiatorRole == RoleHotel {
		return &now, nil
	}
	return nil, &now
}

// RecordConsent stamps the given party's agreed-at and reports whether both
// parties have now agreed, the condition for moving to accepted.
func (c *Collaboration) RecordConsent(role string, now time.Time) bool {
	if role == RoleHotel {
		c.HotelAgreedAt = &now
	} else {
		c.CreatorAgreedAt = &now
	}
	return c.BothAgreed()
}

// ResetConsent clears both agreed-at stamps. Every counter-offer revision
// needs fresh consent from both sides, the proposer included.
func (c *Collaboration) ResetConsent() {
	c.HotelAgreedAt = nil
	c.CreatorAgreedAt = nil
}

// Terms extracts the negotiable part of the collaboration.
func (c *Collaboration) Terms() OfferTerms {
	return OfferTerms{
		CollaborationType:  c.CollaborationType,
		FreeStayMaxNights:  c.FreeStayMaxNights,
		PaidAmount:         c.PaidAmount,
		DiscountPercentage: c.DiscountPercentage,
		TravelDateFrom:     c.TravelDateFrom,
		TravelDateTo:       c.TravelDateTo,
		PreferredDateFrom:  c.PreferredDateFrom,
		PreferredDateTo:    c.PreferredDateTo,
	}
}

// ============================================================================
// REQUESTS
// ============================================================================

type DeliverableInput struct {
	Type     string `json:"type" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type PlatformDeliverablesInput struct {
	Platform     string             `json:"platform" binding:"required"`
	Deliverables []DeliverableInput `json:"deliverables" binding:"required,min=1,dive"`
}

// OfferTerms carries the negotiable part of a collaboration. Used both at
// creation and in counter-offers.
type OfferTerms struct {
	CollaborationType  string     `json:"collaboration_type" binding:"required"`
	FreeStayMaxNights  *int       `json:"free_stay_max_nights,omitempty"`
	PaidAmount         *float64   `json:"paid_amount,omitempty"`
	DiscountPercentage *int       `json:"discount_percentage,omitempty"`
	TravelDateFrom     *time.Time `json:"travel_date_from,omitempty"`
	TravelDateTo       *time.Time `json:"travel_date_to,omitempty"`
	PreferredDateFrom  *time.Time `json:"preferred_date_from,omitempty"`
	PreferredDateTo    *time.Time `json:"preferred_date_to,omitempty"`
}

// Validate checks that exactly the term group matching the collaboration type
// is populated.
func (t *OfferTerms) Validate() error {
	switch t.CollaborationType {
	case TypeFreeStay:
		if t.FreeStayMaxNights == nil || *t.FreeStayMaxNights <= 0 {
			return &ValidationError{Field: "free_stay_max_nights", Reason: "required for Free Stay collaborations"}
		}
		if t.PaidAmount != nil || t.DiscountPercentage != nil {
			return &ValidationError{Field: "collaboration_type", Reason: "Free Stay collaborations cannot carry paid or discount terms"}
		}
	case TypePaid:
		if t.PaidAmount == nil || *t.PaidAmount <= 0 {
			return &ValidationError{Field: "paid_amount", Reason: "required for Paid collaborations"}
		}
		if t.FreeStayMaxNights != nil || t.DiscountPercentage != nil {
			return &ValidationError{Field: "collaboration_type", Reason: "Paid collaborations cannot carry free-stay or discount terms"}
		}
	case TypeDiscount:
		if t.DiscountPercentage == nil || *t.DiscountPercentage <= 0 || *t.DiscountPercentage > 100 {
			return &ValidationError{Field: "discount_percentage", Reason: "must be between 1 and 100 for Discount collaborations"}
		}
		if t.FreeStayMaxNights != nil || t.PaidAmount != nil {
			return &ValidationError{Field: "collaboration_type", Reason: "Discount collaborations cannot carry free-stay or paid terms"}
		}
	default:
		return &ValidationError{Field: "collaboration_type", Reason: "must be one of: Free Stay, Paid, Discount"}
	}

	if (t.TravelDateFrom == nil) != (t.TravelDateTo == nil) {
		return &ValidationError{Field: "travel_date_to", Reason: "travel dates must be set together"}
	}
	if t.TravelDateFrom != nil && t.TravelDateTo.Before(*t.TravelDateFrom) {
		return &ValidationError{Field: "travel_date_to", Reason: "must not be before travel_date_from"}
	}
	if (t.PreferredDateFrom == nil) != (t.PreferredDateTo == nil) {
		return &ValidationError{Field: "preferred_date_to", Reason: "preferred dates must be set together"}
	}
	if t.PreferredDateFrom != nil && t.PreferredDateTo.Before(*t.PreferredDateFrom) {
		return &ValidationError{Field: "preferred_date_to", Reason: "must not be before preferred_date_from"}
	}
	return nil
}

type CreateCollaborationRequest struct {
	PartnerID            string                      `json:"partner_id" binding:"required,uuid"`
	Terms                OfferTerms                  `json:"terms" binding:"required"`
	PlatformDeliverables []PlatformDeliverablesInput `json:"platform_deliverables" binding:"required,min=1,dive"`
	Message              string                      `json:"message,omitempty"`
}

type RespondRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accepted declined"`
}

type CounterOfferRequest struct {
	Terms OfferTerms `json:"terms" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=completed cancelled"`
	// Incomplete marks a completion where deliverables were left unfinished.
	Incomplete bool `json:"incomplete,omitempty"`
}

// NormalizeDecision maps the surface verb to the stored status value. The API
// speaks "declined", the lifecycle table stores "rejected".
func NormalizeDecision(decision string) string {
	if strings.EqualFold(decision, "declined") {
		return StatusRejected
	}
	return StatusAccepted
}
