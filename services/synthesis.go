package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/staylink/collab-api/models"
)

// ============================================================================
// SYSTEM MESSAGE SYNTHESIS
// ============================================================================
// Every user-visible lifecycle transition appends exactly one system message.
// The content format is "<Header>: <fact> • <fact> • ..." and is deterministic
// from the transition's inputs. The event kind is stored alongside the message
// so renderers never have to parse the text.

const factSeparator = " • "

// SynthesizeCounterOffer describes the fields a counter-offer changed.
// Returns the message content and its event kind.
func SynthesizeCounterOffer(old, proposed models.OfferTerms) (string, string) {
	facts := termChanges(old, proposed)
	if len(facts) == 0 {
		facts = []string{"Terms re-proposed without changes"}
	}
	return "Counter-offer proposed: " + strings.Join(facts, factSeparator), models.EventNegotiation
}

// SynthesizeAccepted summarizes the terms both parties agreed to.
func SynthesizeAccepted(terms models.OfferTerms) (string, string) {
	return "Collaboration accepted: " + strings.Join(termFacts(terms), factSeparator), models.EventSuccess
}

// SynthesizeDeclined records which side declined.
func SynthesizeDeclined(declinerRole string) (string, string) {
	return fmt.Sprintf("Collaboration declined: declined by the %s", declinerRole), models.EventDeclined
}

// SynthesizeCompleted narrates a completed collaboration with its deliverable
// tally.
func SynthesizeCompleted(progress Progress) (string, string) {
	fact := fmt.Sprintf("%d of %d deliverables delivered", progress.Completed, progress.Total)
	return "Collaboration completed: " + fact, models.EventSuccess
}

// SynthesizeIncomplete narrates a completion with unfinished deliverables.
func SynthesizeIncomplete(progress Progress) (string, string) {
	fact := fmt.Sprintf("%d of %d deliverables delivered", progress.Completed, progress.Total)
	return "Collaboration marked incomplete: " + fact, models.EventIncomplete
}

// termFacts renders every populated term as a display fact, type-specific
// field first, then dates.
func termFacts(t models.OfferTerms) []string {
	facts := []string{"Type " + t.CollaborationType}

	switch t.CollaborationType {
	case models.TypeFreeStay:
		if t.FreeStayMaxNights != nil {
			facts = append(facts, fmt.Sprintf("Free stay up to %d nights", *t.FreeStayMaxNights))
		}
	case models.TypePaid:
		if t.PaidAmount != nil {
			facts = append(facts, fmt.Sprintf("Paid amount €%.2f", *t.PaidAmount))
		}
	case models.TypeDiscount:
		if t.DiscountPercentage != nil {
			facts = append(facts, fmt.Sprintf("Discount %d%%", *t.DiscountPercentage))
		}
	}

	if t.TravelDateFrom != nil && t.TravelDateTo != nil {
		facts = append(facts, "Travel dates "+dateRange(t.TravelDateFrom, t.TravelDateTo))
	} else if t.PreferredDateFrom != nil && t.PreferredDateTo != nil {
		facts = append(facts, "Preferred dates "+dateRange(t.PreferredDateFrom, t.PreferredDateTo))
	}

	return facts
}

// termChanges renders only the facts that differ between two offers.
func termChanges(old, proposed models.OfferTerms) []string {
	var facts []string

	if old.CollaborationType != proposed.CollaborationType {
		facts = append(facts, "Type "+proposed.CollaborationType)
	}
	if !intPtrEqual(old.FreeStayMaxNights, proposed.FreeStayMaxNights) && proposed.FreeStayMaxNights != nil {
		facts = append(facts, fmt.Sprintf("Free stay up to %d nights", *proposed.FreeStayMaxNights))
	}
	if !floatPtrEqual(old.PaidAmount, proposed.PaidAmount) && proposed.PaidAmount != nil {
		facts = append(facts, fmt.Sprintf("Paid amount €%.2f", *proposed.PaidAmount))
	}
	if !intPtrEqual(old.DiscountPercentage, proposed.DiscountPercentage) && proposed.DiscountPercentage != nil {
		facts = append(facts, fmt.Sprintf("Discount %d%%", *proposed.DiscountPercentage))
	}
	if !timePtrEqual(old.TravelDateFrom, proposed.TravelDateFrom) || !timePtrEqual(old.TravelDateTo, proposed.TravelDateTo) {
		if proposed.TravelDateFrom != nil && proposed.TravelDateTo != nil {
			facts = append(facts, "Travel dates "+dateRange(proposed.TravelDateFrom, proposed.TravelDateTo))
		}
	}
	if !timePtrEqual(old.PreferredDateFrom, proposed.PreferredDateFrom) || !timePtrEqual(old.PreferredDateTo, proposed.PreferredDateTo) {
		if proposed.PreferredDateFrom != nil && proposed.PreferredDateTo != nil {
			facts = append(facts, "Preferred dates "+dateRange(proposed.PreferredDateFrom, proposed.PreferredDateTo))
		}
	}

	return facts
}

func dateRange(from, to *time.Time) string {
	return from.Format("2006-01-02") + " – " + to.Format("2006-01-02")
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
