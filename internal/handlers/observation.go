package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wildvision/observation-store-service/internal/models"
	"github.com/wildvision/observation-store-service/internal/observability"
	"github.com/wildvision/observation-store-service/internal/observations"
	"github.com/wildvision/observation-store-service/internal/store"
)

// toObservationResponse renders a stored record for the wire, with the
// timestamp normalized to RFC3339 UTC.
func toObservationResponse(obs models.Observation) models.ObservationResponse {
	return models.ObservationResponse{
		ID:        obs.ID,
		Species:   obs.Species,
		Gender:    obs.Gender,
		Quantity:  obs.Quantity,
		Latitude:  obs.Latitude,
		Longitude: obs.Longitude,
		UserID:    obs.UserID,
		Timestamp: obs.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

// errJSON writes the error envelope shared by every failing endpoint.
func errJSON(c *gin.Context, status int, message string) {
	c.JSON(status, models.StatusMessage{Status: "error", Message: message})
}

// RegisterObservationRoutes registers the observation CRUD endpoints.
//
// POST   /add_observation        - validate, stamp with server time, persist
// GET    /get_observations       - list the whole collection
// GET    /get_observation/:id    - fetch a single record by id
// DELETE /delete_observation/:id - remove a record; repeat deletes return 404
//
// All four sit behind the X-API-Key middleware.
func RegisterObservationRoutes(r gin.IRoutes, svc *observations.Service, metrics *observability.Metrics) {
	r.POST("/add_observation", func(c *gin.Context) {
		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			// Empty and unparseable bodies are reported the same way.
			metrics.ValidationFailures.Inc()
			errJSON(c, http.StatusBadRequest, "No data provided")
			return
		}

		id, err := svc.Add(c.Request.Context(), fields)
		if err != nil {
			var verr *observations.ValidationError
			if errors.As(err, &verr) {
				metrics.ValidationFailures.Inc()
				errJSON(c, http.StatusBadRequest, verr.Message)
				return
			}
			metrics.StoreErrors.Inc()
			errJSON(c, http.StatusInternalServerError, "Failed to add observation")
			return
		}

		metrics.ObservationsAdded.Inc()
		c.JSON(http.StatusCreated, models.AddObservationResponse{
			Status:  "success",
			Message: "Observation added successfully",
			ID:      id,
		})
	})

	r.GET("/get_observations", func(c *gin.Context) {
		all, err := svc.List(c.Request.Context())
		if err != nil {
			metrics.StoreErrors.Inc()
			errJSON(c, http.StatusInternalServerError, "Failed to fetch observations")
			return
		}

		out := make([]models.ObservationResponse, 0, len(all))
		for _, obs := range all {
			out = append(out, toObservationResponse(obs))
		}
		c.JSON(http.StatusOK, models.ObservationListResponse{
			Status:       "success",
			Observations: out,
		})
	})

	r.GET("/get_observation/:id", func(c *gin.Context) {
		obs, err := svc.Get(c.Request.Context(), c.Param("id"))
		switch {
		case err == nil:
			c.JSON(http.StatusOK, models.ObservationDetailResponse{
				Status:      "success",
				Observation: toObservationResponse(obs),
			})
		case errors.Is(err, store.ErrNotFound):
			errJSON(c, http.StatusNotFound, "Observation not found")
		default:
			// Malformed ids surface as generic store failures.
			metrics.StoreErrors.Inc()
			errJSON(c, http.StatusInternalServerError, "Failed to fetch observation")
		}
	})

	r.DELETE("/delete_observation/:id", func(c *gin.Context) {
		err := svc.Delete(c.Request.Context(), c.Param("id"))
		switch {
		case err == nil:
			metrics.ObservationsDeleted.Inc()
			c.JSON(http.StatusOK, models.StatusMessage{
				Status:  "success",
				Message: "Observation deleted successfully",
			})
		case errors.Is(err, store.ErrNotFound):
			errJSON(c, http.StatusNotFound, "Observation not found")
		default:
			metrics.StoreErrors.Inc()
			errJSON(c, http.StatusInternalServerError, "Failed to delete observation")
		}
	})
}
