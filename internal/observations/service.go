// Package observations implements the record-keeping contract for wildlife
// sightings: validated writes into the document collection, retrieval, and
// deletion by canonical identifier.
package observations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/wildvision/observation-store-service/internal/models"
	"github.com/wildvision/observation-store-service/internal/store"
)

// requiredFields lists the add-payload keys in the order missing ones are
// reported. The order is part of the client-visible contract.
var requiredFields = []string{"species", "gender", "quantity", "latitude", "longitude", "userId"}

// validGenders is the closed set accepted for the gender field.
var validGenders = map[string]bool{
	"Male":    true,
	"Female":  true,
	"Unknown": true,
}

// ValidationError reports malformed, missing, or out-of-range input on add.
// Message is the client-visible text rendered by the HTTP layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Service validates observation payloads and delegates persistence to the
// collection. Each operation is a single request/response against the store
// with no cross-request state.
type Service struct {
	store  store.Store
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewService creates a Service over the given collection.
func NewService(st store.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		clock:  clockwork.NewRealClock(),
		logger: logger,
	}
}

// Add validates and coerces the raw payload fields, stamps the record with
// the current UTC time, persists it, and returns the generated identifier.
//
// Checks run in the contract's order: payload presence, missing keys, type
// coercion of all six fields, gender enum, quantity range, species text.
func (s *Service) Add(ctx context.Context, fields map[string]any) (string, error) {
	if len(fields) == 0 {
		return "", &ValidationError{Message: "No data provided"}
	}

	var missing []string
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &ValidationError{Message: "Missing fields: " + strings.Join(missing, ", ")}
	}

	species, okSpecies := coerceString(fields["species"])
	gender, okGender := coerceString(fields["gender"])
	quantity, okQuantity := coerceInt(fields["quantity"])
	latitude, okLatitude := coerceFloat(fields["latitude"])
	longitude, okLongitude := coerceFloat(fields["longitude"])
	userID, okUserID := coerceString(fields["userId"])
	if !okSpecies || !okGender || !okQuantity || !okLatitude || !okLongitude || !okUserID {
		return "", &ValidationError{Message: "Invalid data types provided"}
	}

	if !validGenders[gender] {
		return "", &ValidationError{Message: "Invalid gender value"}
	}
	if quantity < 1 {
		return "", &ValidationError{Message: "Quantity must be at least 1"}
	}
	if species == "" {
		return "", &ValidationError{Message: "Species must not be empty"}
	}

	obs := models.Observation{
		Species:   species,
		Gender:    gender,
		Quantity:  quantity,
		Latitude:  latitude,
		Longitude: longitude,
		UserID:    userID,
		Timestamp: s.clock.Now().UTC(),
	}

	id, err := s.store.Insert(ctx, obs)
	if err != nil {
		s.logger.Error("observation insert failed", "error", err)
		return "", fmt.Errorf("add observation: %w", err)
	}

	return id, nil
}

// List returns all stored observations in the collection's stable order.
func (s *Service) List(ctx context.Context) ([]models.Observation, error) {
	out, err := s.store.FindAll(ctx)
	if err != nil {
		s.logger.Error("observation list failed", "error", err)
		return nil, fmt.Errorf("list observations: %w", err)
	}
	return out, nil
}

// Get returns the single observation matching id.
func (s *Service) Get(ctx context.Context, id string) (models.Observation, error) {
	obs, err := s.store.FindByID(ctx, id)
	switch {
	case err == nil:
		return obs, nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrInvalidID):
		return models.Observation{}, err
	default:
		s.logger.Error("observation fetch failed", "id", id, "error", err)
		return models.Observation{}, fmt.Errorf("get observation: %w", err)
	}
}

// Delete removes the observation matching id. Deleting the same id twice
// fails with store.ErrNotFound the second time; delete is not idempotent.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.DeleteByID(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrInvalidID):
		return err
	default:
		s.logger.Error("observation delete failed", "id", id, "error", err)
		return fmt.Errorf("delete observation: %w", err)
	}
}

// coerceString accepts only JSON strings and trims surrounding whitespace.
func coerceString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// coerceInt accepts JSON numbers, truncated toward zero, and strings holding
// a base-10 integer.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return int(parsed), true
	default:
		return 0, false
	}
}

// coerceFloat accepts JSON numbers and strings holding a finite float.
func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
