// Package report owns the ObservationRecord lifecycle: creation (which is
// the single point where a public coordinate is derived), operator-driven
// status transitions, and the data-shaped views handed to the map and
// distance collaborators.
package report

import (
	"context"

	"github.com/google/uuid"

	"geoveil/internal/geo"
	"geoveil/internal/metrics"
	"geoveil/internal/privacy"
	"geoveil/internal/types"
)

// CreateInput carries everything the form collaborator supplies for a new
// observation. Fields beyond these (category, description, media, contact)
// are owned by the form collaborator and never pass through this service.
type CreateInput struct {
	ExactLocation       types.Coordinate
	RequestedBlurRadius int
	SensitiveMode       bool
}

// Service coordinates the privacy policy, the repository, and the clock.
type Service struct {
	repo    types.ObservationRepository
	policy  *privacy.Policy
	clock   types.Clock
	logger  types.Logger
	metrics metrics.Recorder
}

// NewService wires a report service. Pass metrics.Nop{} when no collector is
// registered.
func NewService(repo types.ObservationRepository, policy *privacy.Policy, clock types.Clock, logger types.Logger, rec metrics.Recorder) *Service {
	return &Service{
		repo:    repo,
		policy:  policy,
		clock:   clock,
		logger:  logger,
		metrics: rec,
	}
}

// Create validates the input, resolves the blur radius, derives the public
// coordinate (once, forever), and persists the new record in the Submitted
// state.
func (s *Service) Create(ctx context.Context, in CreateInput) (*types.ObservationRecord, error) {
	if err := in.ExactLocation.Validate(); err != nil {
		return nil, err
	}

	blur := s.policy.ResolveBlurRadius(in.RequestedBlurRadius, in.SensitiveMode)
	public, err := s.policy.DerivePublicLocation(in.ExactLocation, blur)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rec := &types.ObservationRecord{
		ID:               uuid.NewString(),
		CreatedAt:        now,
		ExactLocation:    in.ExactLocation,
		BlurRadiusMeters: blur,
		PublicLocation:   public,
		Status:           types.StatusSubmitted,
		History:          []types.StatusChange{{Status: types.StatusSubmitted, At: now}},
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.metrics.ObservationCreated(in.SensitiveMode)
	s.logger.Info("observation created",
		"id", rec.ID,
		"blur_radius_m", blur,
		"sensitive", in.SensitiveMode,
	)
	return rec, nil
}

// Acknowledge fires the Submitted -> Received transition. In the surrounding
// system this is triggered by the simulated-backend acknowledgment shortly
// after creation; it is modeled as "eventually happens", not synchronous
// with Create.
func (s *Service) Acknowledge(ctx context.Context, id string) (*types.ObservationRecord, error) {
	return s.Transition(ctx, id, types.StatusReceived)
}

// Transition validates and applies a lifecycle move. On rejection the stored
// record is untouched and the caller receives the violated invariant as a
// typed error.
func (s *Service) Transition(ctx context.Context, id string, next types.Status) (*types.ObservationRecord, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(rec.Status, next); err != nil {
		s.metrics.TransitionRejected(types.CodeOf(err))
		s.logger.Warn("transition rejected",
			"id", id,
			"from", rec.Status,
			"to", next,
			"code", types.CodeOf(err),
		)
		return nil, err
	}

	applyTransition(rec, next, s.clock.Now())
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.metrics.TransitionAccepted(next)
	s.logger.Info("transition accepted", "id", id, "to", next)
	return rec, nil
}

// Get returns a single record by id.
func (s *Service) Get(ctx context.Context, id string) (*types.ObservationRecord, error) {
	return s.repo.Get(ctx, id)
}

// List returns all records.
func (s *Service) List(ctx context.Context) ([]*types.ObservationRecord, error) {
	return s.repo.List(ctx)
}

// Delete removes a record, e.g. when the reporter withdraws it.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// MapView builds the rendering contract for one record. A private view
// exposes the exact point with its GPS accuracy circle; a public view
// exposes the public point with the blur-radius circle for visual context
// and never the exact point as a marker.
func (s *Service) MapView(rec *types.ObservationRecord, privateView bool) (types.MapView, error) {
	if rec == nil {
		return types.MapView{}, types.NewAppError(types.ErrCodeInvalidArgument, "record is nil", nil)
	}
	if privateView {
		var accuracy float64
		if rec.ExactLocation.AccuracyMeters != nil {
			accuracy = *rec.ExactLocation.AccuracyMeters
		}
		return types.MapView{
			RecordID:           rec.ID,
			Point:              rec.ExactLocation,
			CircleCenter:       rec.ExactLocation,
			CircleRadiusMeters: accuracy,
			Private:            true,
		}, nil
	}
	return types.MapView{
		RecordID:           rec.ID,
		Point:              rec.PublicLocation,
		CircleCenter:       rec.ExactLocation,
		CircleRadiusMeters: float64(rec.BlurRadiusMeters),
		Private:            false,
	}, nil
}

// DistanceFrom answers "how far am I from this report" for a user-supplied
// coordinate, measured against the exact or the public location depending on
// the view.
func (s *Service) DistanceFrom(user types.Coordinate, rec *types.ObservationRecord, privateView bool) (float64, error) {
	if rec == nil {
		return 0, types.NewAppError(types.ErrCodeInvalidArgument, "record is nil", nil)
	}
	if err := user.Validate(); err != nil {
		return 0, err
	}
	if privateView {
		return geo.DistanceMeters(user, rec.ExactLocation), nil
	}
	return geo.DistanceMeters(user, rec.PublicLocation), nil
}
