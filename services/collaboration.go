package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/staylink/collab-api/models"
	"github.com/staylink/collab-api/utils"
)

// CollaborationService owns the collaboration lifecycle. Every mutation for a
// given collaboration id is serialized through a per-id mutex and a row lock,
// because respond, counter-offer and deliverable toggles all read-then-write
// the same status/agreed_at fields.
type CollaborationService struct {
	db    *sql.DB
	locks sync.Map // collaboration id -> *sync.Mutex
}

func NewCollaborationService(db *sql.DB) *CollaborationService {
	return &CollaborationService{db: db}
}

func (s *CollaborationService) lockFor(id string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ============================================================================
// CREATE
// ============================================================================

// Create produces a pending collaboration. The initiator's agreed_at is
// stamped at creation: creating a request is consenting to its terms.
func (s *CollaborationService) Create(ctx context.Context, viewerID, viewerRole string, req models.CreateCollaborationRequest) (*models.Collaboration, error) {
	if err := req.Terms.Validate(); err != nil {
		return nil, err
	}

	var partnerRole string
	err := s.db.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1`, req.PartnerID).Scan(&partnerRole)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "user", ID: req.PartnerID}
	}
	if err != nil {
		return nil, err
	}
	if partnerRole == viewerRole {
		return nil, &models.ValidationError{Field: "partner_id", Reason: "partner must have the opposite role"}
	}

	hotelID, creatorID := viewerID, req.PartnerID
	if viewerRole == models.RoleCreator {
		hotelID, creatorID = req.PartnerID, viewerID
	}

	collabID := uuid.New().String()
	now := time.Now()

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		hotelAgreed, creatorAgreed := models.InitialConsent(viewerRole, now)

		_, err := tx.ExecContext(ctx, `
			INSERT INTO collaborations (
				id, hotel_id, creator_id, initiator_type, status, collaboration_type,
				free_stay_max_nights, paid_amount, discount_percentage,
				travel_date_from, travel_date_to, preferred_date_from, preferred_date_to,
				hotel_agreed_at, creator_agreed_at, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		`, collabID, hotelID, creatorID, viewerRole, models.StatusPending,
			req.Terms.CollaborationType, req.Terms.FreeStayMaxNights, req.Terms.PaidAmount,
			req.Terms.DiscountPercentage, req.Terms.TravelDateFrom, req.Terms.TravelDateTo,
			req.Terms.PreferredDateFrom, req.Terms.PreferredDateTo,
			hotelAgreed, creatorAgreed, now)
		if err != nil {
			return err
		}

		for pi, group := range req.PlatformDeliverables {
			for di, d := range group.Deliverables {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO deliverables (id, collaboration_id, platform, platform_position, position, deliverable_type, quantity)
					VALUES ($1, $2, $3, $4, $5, $6, $7)
				`, uuid.New().String(), collabID, group.Platform, pi, di, d.Type, d.Quantity)
				if err != nil {
					return err
				}
			}
		}

		conversationID := uuid.New().String()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO conversations (id, collaboration_id, collaboration_status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
		`, conversationID, collabID, models.StatusPending, now)
		if err != nil {
			return err
		}

		if req.Message != "" {
			encrypted, err := utils.EncryptContent(req.Message)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO messages (id, conversation_id, sender_id, content_type, content, created_at)
				VALUES ($1, $2, $3, 'text', $4, $5)
			`, uuid.New().String(), conversationID, viewerID, encrypted, now)
			if err != nil {
				return err
			}
			unreadColumn := counterpartyUnreadColumn(viewerRole)
			_, err = tx.ExecContext(ctx, `
				UPDATE conversations
				SET last_message_content = $1, last_message_at = $2, `+unreadColumn+` = `+unreadColumn+` + 1, updated_at = $2
				WHERE id = $3
			`, encrypted, now, conversationID)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, collabID, viewerID)
}

// ============================================================================
// LIFECYCLE TRANSITIONS
// ============================================================================

// Respond handles an accept or decline from either party. Accepting stamps
// the responder's agreed_at; the collaboration becomes accepted only once
// both stamps are set. Declining always moves straight to rejected.
func (s *CollaborationService) Respond(ctx context.Context, id, viewerID, decision string) (*models.Collaboration, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		collab, err := s.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		viewerRole, err := partyRole(collab, viewerID)
		if err != nil {
			return err
		}

		if collab.Status != models.StatusPending && collab.Status != models.StatusNegotiating {
			return &models.InvalidStateTransitionError{Status: collab.Status, Operation: "respond"}
		}

		now := time.Now()

		if models.NormalizeDecision(decision) == models.StatusRejected {
			if _, err := tx.ExecContext(ctx, `
				UPDATE collaborations SET status = $1, updated_at = $2 WHERE id = $3
			`, models.StatusRejected, now, id); err != nil {
				return err
			}
			content, event := SynthesizeDeclined(viewerRole)
			if err := insertSystemMessage(ctx, tx, id, content, event); err != nil {
				return err
			}
			return mirrorStatus(ctx, tx, id, models.StatusRejected)
		}

		column := agreedAtColumn(viewerRole)
		if _, err := tx.ExecContext(ctx, `
			UPDATE collaborations SET `+column+` = $1, updated_at = $1 WHERE id = $2
		`, now, id); err != nil {
			return err
		}

		if collab.RecordConsent(viewerRole, now) {
			if _, err := tx.ExecContext(ctx, `
				UPDATE collaborations SET status = $1, updated_at = $2 WHERE id = $3
			`, models.StatusAccepted, now, id); err != nil {
				return err
			}
			content, event := SynthesizeAccepted(collab.Terms())
			if err := insertSystemMessage(ctx, tx, id, content, event); err != nil {
				return err
			}
			return mirrorStatus(ctx, tx, id, models.StatusAccepted)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id, viewerID)
}

// ProposeCounterOffer replaces the offer terms and demands fresh bilateral
// consent: both agreed_at fields are cleared, the proposer's included, so a
// single accept can never complete the revised deal.
func (s *CollaborationService) ProposeCounterOffer(ctx context.Context, id, viewerID string, terms models.OfferTerms) (*models.Collaboration, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		collab, err := s.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := partyRole(collab, viewerID); err != nil {
			return err
		}

		if collab.Status != models.StatusPending && collab.Status != models.StatusNegotiating {
			return &models.InvalidStateTransitionError{Status: collab.Status, Operation: "propose a counter-offer"}
		}

		collab.ResetConsent()

		if _, err := tx.ExecContext(ctx, `
			UPDATE collaborations
			SET status = $1, collaboration_type = $2,
			    free_stay_max_nights = $3, paid_amount = $4, discount_percentage = $5,
			    travel_date_from = $6, travel_date_to = $7,
			    preferred_date_from = $8, preferred_date_to = $9,
			    hotel_agreed_at = NULL, creator_agreed_at = NULL, updated_at = $10
			WHERE id = $11
		`, models.StatusNegotiating, terms.CollaborationType,
			terms.FreeStayMaxNights, terms.PaidAmount, terms.DiscountPercentage,
			terms.TravelDateFrom, terms.TravelDateTo,
			terms.PreferredDateFrom, terms.PreferredDateTo,
			time.Now(), id); err != nil {
			return err
		}

		content, event := SynthesizeCounterOffer(collab.Terms(), terms)
		if err := insertSystemMessage(ctx, tx, id, content, event); err != nil {
			return err
		}
		return mirrorStatus(ctx, tx, id, models.StatusNegotiating)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id, viewerID)
}

// UpdateStatus handles the accepted → completed|cancelled edges. Completion
// appends a success or incomplete system message depending on the caller's
// incomplete flag.
func (s *CollaborationService) UpdateStatus(ctx context.Context, id, viewerID, newStatus string, incomplete bool) (*models.Collaboration, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		collab, err := s.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := partyRole(collab, viewerID); err != nil {
			return err
		}

		if !models.CanTransition(collab.Status, newStatus) {
			return &models.InvalidStateTransitionError{Status: collab.Status, Operation: "transition to " + newStatus}
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE collaborations SET status = $1, updated_at = $2 WHERE id = $3
		`, newStatus, time.Now(), id); err != nil {
			return err
		}

		if newStatus == models.StatusCompleted {
			groups, err := loadDeliverablesTx(ctx, tx, id)
			if err != nil {
				return err
			}
			progress := DeliverableProgress(groups)

			var content, event string
			if incomplete {
				content, event = SynthesizeIncomplete(progress)
			} else {
				content, event = SynthesizeCompleted(progress)
			}
			if err := insertSystemMessage(ctx, tx, id, content, event); err != nil {
				return err
			}
		}

		return mirrorStatus(ctx, tx, id, newStatus)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id, viewerID)
}

// ToggleDeliverable flips one deliverable's completion. Only legal while the
// collaboration is accepted: the checklist is meaningless before acceptance
// and frozen after completion or cancellation.
func (s *CollaborationService) ToggleDeliverable(ctx context.Context, collabID, deliverableID, viewerID string) (*models.Collaboration, error) {
	mu := s.lockFor(collabID)
	mu.Lock()
	defer mu.Unlock()

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		collab, err := s.getForUpdate(ctx, tx, collabID)
		if err != nil {
			return err
		}
		if _, err := partyRole(collab, viewerID); err != nil {
			return err
		}

		if collab.Status != models.StatusAccepted {
			return &models.InvalidStateTransitionError{Status: collab.Status, Operation: "toggle a deliverable"}
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE deliverables
			SET completed = NOT completed,
			    completed_at = CASE WHEN completed THEN NULL ELSE NOW() END
			WHERE id = $1 AND collaboration_id = $2
		`, deliverableID, collabID)
		if err != nil {
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return &models.NotFoundError{Resource: "deliverable", ID: deliverableID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, collabID, viewerID)
}

// Rate records that the viewer rated a completed collaboration.
func (s *CollaborationService) Rate(ctx context.Context, id, viewerID string) error {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		collab, err := s.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		viewerRole, err := partyRole(collab, viewerID)
		if err != nil {
			return err
		}

		if collab.Status != models.StatusCompleted {
			return &models.InvalidStateTransitionError{Status: collab.Status, Operation: "rate"}
		}

		column := "hotel_rated"
		if viewerRole == models.RoleCreator {
			column = "creator_rated"
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE collaborations SET `+column+` = TRUE, updated_at = NOW() WHERE id = $1
		`, id)
		return err
	})
}

// ============================================================================
// READS
// ============================================================================

const collaborationColumns = `
	c.id, c.hotel_id, c.creator_id, c.initiator_type, c.status, c.collaboration_type,
	c.free_stay_max_nights, c.paid_amount, c.discount_percentage,
	c.travel_date_from, c.travel_date_to, c.preferred_date_from, c.preferred_date_to,
	c.hotel_agreed_at, c.creator_agreed_at, c.hotel_rated, c.creator_rated,
	c.created_at, c.updated_at,
	h.name, COALESCE(h.location, ''), COALESCE(h.avatar, ''),
	cr.name, COALESCE(cr.location, ''), COALESCE(cr.avatar, '')`

// GetByID loads a collaboration with both parties and its deliverables,
// deriving the viewer-relative fields. Returns NotFound when the viewer is
// not a party to it.
func (s *CollaborationService) GetByID(ctx context.Context, id, viewerID string) (*models.Collaboration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+collaborationColumns+`
		FROM collaborations c
		JOIN users h ON c.hotel_id = h.id
		JOIN users cr ON c.creator_id = cr.id
		WHERE c.id = $1 AND (c.hotel_id = $2 OR c.creator_id = $2)
	`, id, viewerID)

	collab, err := scanCollaboration(row, viewerID)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "collaboration", ID: id}
	}
	if err != nil {
		return nil, err
	}

	groups, err := s.loadDeliverables(ctx, id)
	if err != nil {
		return nil, err
	}
	collab.PlatformDeliverables = groups

	return collab, nil
}

// ListForViewer returns every collaboration the viewer is a party to, newest
// first, with deliverables attached.
func (s *CollaborationService) ListForViewer(ctx context.Context, viewerID string) ([]models.Collaboration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+collaborationColumns+`
		FROM collaborations c
		JOIN users h ON c.hotel_id = h.id
		JOIN users cr ON c.creator_id = cr.id
		WHERE c.hotel_id = $1 OR c.creator_id = $1
		ORDER BY c.created_at DESC
	`, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collabs := []models.Collaboration{}
	for rows.Next() {
		collab, err := scanCollaboration(rows, viewerID)
		if err != nil {
			return nil, err
		}

		groups, err := s.loadDeliverables(ctx, collab.ID)
		if err != nil {
			return nil, err
		}
		collab.PlatformDeliverables = groups

		collabs = append(collabs, *collab)
	}

	return collabs, rows.Err()
}

// ============================================================================
// INTERNAL HELPERS
// ============================================================================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCollaboration(row rowScanner, viewerID string) (*models.Collaboration, error) {
	var c models.Collaboration
	var freeStay, discount sql.NullInt64
	var paid sql.NullFloat64
	var travelFrom, travelTo, prefFrom, prefTo, hotelAgreed, creatorAgreed sql.NullTime
	var hotelRated, creatorRated bool

	err := row.Scan(
		&c.ID, &c.HotelID, &c.CreatorID, &c.InitiatorType, &c.Status, &c.CollaborationType,
		&freeStay, &paid, &discount,
		&travelFrom, &travelTo, &prefFrom, &prefTo,
		&hotelAgreed, &creatorAgreed, &hotelRated, &creatorRated,
		&c.CreatedAt, &c.UpdatedAt,
		&c.Hotel.Name, &c.Hotel.Location, &c.Hotel.Avatar,
		&c.Creator.Name, &c.Creator.Location, &c.Creator.Avatar,
	)
	if err != nil {
		return nil, err
	}

	c.Hotel.ID = c.HotelID
	c.Creator.ID = c.CreatorID

	if c.HotelID == viewerID {
		c.IsInitiator = c.InitiatorType == models.RoleHotel
		c.HasRated = hotelRated
	} else {
		c.IsInitiator = c.InitiatorType == models.RoleCreator
		c.HasRated = creatorRated
	}

	if freeStay.Valid {
		v := int(freeStay.Int64)
		c.FreeStayMaxNights = &v
	}
	if paid.Valid {
		v := paid.Float64
		c.PaidAmount = &v
	}
	if discount.Valid {
		v := int(discount.Int64)
		c.DiscountPercentage = &v
	}
	c.TravelDateFrom = nullTimePtr(travelFrom)
	c.TravelDateTo = nullTimePtr(travelTo)
	c.PreferredDateFrom = nullTimePtr(prefFrom)
	c.PreferredDateTo = nullTimePtr(prefTo)
	c.HotelAgreedAt = nullTimePtr(hotelAgreed)
	c.CreatorAgreedAt = nullTimePtr(creatorAgreed)

	return &c, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// getForUpdate loads the bare collaboration row under a row lock.
func (s *CollaborationService) getForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Collaboration, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT id, hotel_id, creator_id, initiator_type, status, collaboration_type,
		       free_stay_max_nights, paid_amount, discount_percentage,
		       travel_date_from, travel_date_to, preferred_date_from, preferred_date_to,
		       hotel_agreed_at, creator_agreed_at, created_at, updated_at
		FROM collaborations
		WHERE id = $1
		FOR UPDATE
	`, id)

	var c models.Collaboration
	var freeStay, discount sql.NullInt64
	var paid sql.NullFloat64
	var travelFrom, travelTo, prefFrom, prefTo, hotelAgreed, creatorAgreed sql.NullTime

	err := row.Scan(
		&c.ID, &c.HotelID, &c.CreatorID, &c.InitiatorType, &c.Status, &c.CollaborationType,
		&freeStay, &paid, &discount,
		&travelFrom, &travelTo, &prefFrom, &prefTo,
		&hotelAgreed, &creatorAgreed, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "collaboration", ID: id}
	}
	if err != nil {
		return nil, err
	}

	if freeStay.Valid {
		v := int(freeStay.Int64)
		c.FreeStayMaxNights = &v
	}
	if paid.Valid {
		v := paid.Float64
		c.PaidAmount = &v
	}
	if discount.Valid {
		v := int(discount.Int64)
		c.DiscountPercentage = &v
	}
	c.TravelDateFrom = nullTimePtr(travelFrom)
	c.TravelDateTo = nullTimePtr(travelTo)
	c.PreferredDateFrom = nullTimePtr(prefFrom)
	c.PreferredDateTo = nullTimePtr(prefTo)
	c.HotelAgreedAt = nullTimePtr(hotelAgreed)
	c.CreatorAgreedAt = nullTimePtr(creatorAgreed)

	return &c, nil
}

// partyRole maps a viewer id to its role within the collaboration, or
// NotFound when the viewer is not a party.
func partyRole(c *models.Collaboration, viewerID string) (string, error) {
	switch viewerID {
	case c.HotelID:
		return models.RoleHotel, nil
	case c.CreatorID:
		return models.RoleCreator, nil
	}
	return "", &models.NotFoundError{Resource: "collaboration", ID: c.ID}
}

func agreedAtColumn(role string) string {
	if role == models.RoleHotel {
		return "hotel_agreed_at"
	}
	return "creator_agreed_at"
}

func counterpartyUnreadColumn(senderRole string) string {
	if senderRole == models.RoleHotel {
		return "creator_unread"
	}
	return "hotel_unread"
}

func (s *CollaborationService) loadDeliverables(ctx context.Context, collabID string) ([]models.PlatformDeliverables, error) {
	rows, err := s.db.QueryContext(ctx, deliverablesQuery, collabID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return groupDeliverables(rows)
}

func loadDeliverablesTx(ctx context.Context, tx *sql.Tx, collabID string) ([]models.PlatformDeliverables, error) {
	rows, err := tx.QueryContext(ctx, deliverablesQuery, collabID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return groupDeliverables(rows)
}

const deliverablesQuery = `
	SELECT id, platform, deliverable_type, quantity, completed, completed_at
	FROM deliverables
	WHERE collaboration_id = $1
	ORDER BY platform_position, position
`

func groupDeliverables(rows *sql.Rows) ([]models.PlatformDeliverables, error) {
	groups := []models.PlatformDeliverables{}
	for rows.Next() {
		var d models.Deliverable
		var platform string
		var completedAt sql.NullTime
		if err := rows.Scan(&d.ID, &platform, &d.Type, &d.Quantity, &d.Completed, &completedAt); err != nil {
			return nil, err
		}
		d.CompletedAt = nullTimePtr(completedAt)

		if len(groups) == 0 || groups[len(groups)-1].Platform != platform {
			groups = append(groups, models.PlatformDeliverables{Platform: platform})
		}
		last := len(groups) - 1
		groups[last].Deliverables = append(groups[last].Deliverables, d)
	}
	return groups, rows.Err()
}

// insertSystemMessage appends one synthesized message to the collaboration's
// conversation and bumps both unread counters. Runs inside the transition's
// transaction so the thread and the status never diverge.
func insertSystemMessage(ctx context.Context, tx *sql.Tx, collabID, content, event string) error {
	var conversationID string
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM conversations WHERE collaboration_id = $1
	`, collabID).Scan(&conversationID)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, content_type, content, system_event, created_at)
		VALUES ($1, $2, NULL, 'system', $3, $4, $5)
	`, uuid.New().String(), conversationID, content, event, now)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE conversations
		SET last_message_content = $1, last_message_at = $2,
		    hotel_unread = hotel_unread + 1, creator_unread = creator_unread + 1,
		    updated_at = $2
		WHERE id = $3
	`, content, now, conversationID)
	return err
}

// mirrorStatus updates the conversation's denormalized status copy. This is
// the only writer of the mirror.
func mirrorStatus(ctx context.Context, tx *sql.Tx, collabID, status string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE conversations SET collaboration_status = $1, updated_at = NOW() WHERE collaboration_id = $2
	`, status, collabID)
	return err
}
