package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridenow/internal/domain"
	"ridenow/internal/middleware"
	"ridenow/internal/service"
)

// RideHandler handles ride HTTP requests.
type RideHandler struct {
	rideService     *service.RideService
	dispatchService *service.DispatchService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService, dispatchService *service.DispatchService) *RideHandler {
	return &RideHandler{
		rideService:     rideService,
		dispatchService: dispatchService,
	}
}

// CreateRideRequest is the HTTP request body for requesting a ride.
type CreateRideRequest struct {
	PickupLocation string `json:"pickup_location"`
	DropLocation   string `json:"drop_location"`
	DistanceKm     string `json:"distance_km"`
	RideType       string `json:"ride_type"`
}

// UpdateStatusRequest is the HTTP request body for a status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID             string `json:"id"`
	RiderID        string `json:"rider_id"`
	DriverID       string `json:"driver_id,omitempty"`
	PickupLocation string `json:"pickup_location"`
	DropLocation   string `json:"drop_location"`
	DistanceKm     string `json:"distance_km"`
	RideType       string `json:"ride_type"`
	Fare           string `json:"fare"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	CompletedAt    string `json:"completed_at,omitempty"`
	CancelledAt    string `json:"cancelled_at,omitempty"`
	CancelReason   string `json:"cancel_reason,omitempty"`
}

// CreateRide handles POST /v1/rides
//
// The ride is created first and dispatch is attempted synchronously. A ride
// with no available driver is still created; it stays searching and the
// response reports driver_assigned false.
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	distance, err := domain.ParseDistance(req.DistanceKm)
	if err != nil {
		respondError(c, service.ErrInvalidDistance)
		return
	}

	ctx := c.Request.Context()
	ride, err := h.rideService.CreateRide(ctx, service.CreateRideRequest{
		RiderID:        c.GetString(middleware.ContextUserID),
		PickupLocation: req.PickupLocation,
		DropLocation:   req.DropLocation,
		DistanceKm:     distance,
		RideType:       domain.RideType(req.RideType),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.dispatchService.RequestAssignment(ctx, ride.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoDriversAvailable) || errors.Is(err, service.ErrAssignmentInProgress) {
			respondJSON(c, http.StatusCreated, gin.H{
				"ride":            rideResponse(ride),
				"driver_assigned": false,
			})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"ride":            rideResponse(result.Ride),
		"driver_assigned": true,
		"driver_id":       result.DriverID,
	})
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// History handles GET /v1/rides/history
func (h *RideHandler) History(c *gin.Context) {
	rides, err := h.rideService.History(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		out = append(out, rideResponse(ride))
	}

	respondJSON(c, http.StatusOK, gin.H{"rides": out})
}

// UpdateStatus handles PATCH /v1/rides/:id/status
func (h *RideHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	target, ok := domain.ParseRideStatus(req.Status)
	if !ok {
		respondError(c, service.ErrInvalidRideStatus)
		return
	}

	ride, err := h.rideService.Transition(c.Request.Context(), c.Param("id"), target, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// Dispatch handles POST /v1/rides/:id/dispatch
//
// Retries assignment for a ride that is still searching.
func (h *RideHandler) Dispatch(c *gin.Context) {
	result, err := h.dispatchService.RequestAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"ride":      rideResponse(result.Ride),
		"driver_id": result.DriverID,
	})
}

func rideResponse(ride *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:             ride.ID,
		RiderID:        ride.RiderID,
		DriverID:       ride.DriverID,
		PickupLocation: ride.PickupLocation,
		DropLocation:   ride.DropLocation,
		DistanceKm:     ride.DistanceKm.StringFixed(2),
		RideType:       string(ride.RideType),
		Fare:           ride.Fare.StringFixed(2),
		Status:         string(ride.Status),
		CreatedAt:      ride.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if !ride.CompletedAt.IsZero() {
		resp.CompletedAt = ride.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if !ride.CancelledAt.IsZero() {
		resp.CancelledAt = ride.CancelledAt.Format("2006-01-02T15:04:05Z07:00")
	}
	resp.CancelReason = ride.CancelReason
	return resp
}
