package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridenow/internal/domain"
	"ridenow/internal/middleware"
	"ridenow/internal/service"
)

// DriverHandler handles driver HTTP requests.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// RegisterDriverRequest is the HTTP request body for registering as a driver.
type RegisterDriverRequest struct {
	VehicleModel  string `json:"vehicle_model"`
	VehicleNumber string `json:"vehicle_number"`
}

// ToggleActiveRequest is the HTTP request body for changing availability.
type ToggleActiveRequest struct {
	Active *bool `json:"active"`
}

// DriverResponse is the HTTP representation of a driver profile.
type DriverResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	VehicleModel  string `json:"vehicle_model"`
	VehicleNumber string `json:"vehicle_number"`
	Rating        string `json:"rating"`
	IsActive      bool   `json:"is_active"`
}

// Register handles POST /v1/drivers/register
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Register(c.Request.Context(), service.RegisterDriverRequest{
		UserID:        c.GetString(middleware.ContextUserID),
		VehicleModel:  req.VehicleModel,
		VehicleNumber: req.VehicleNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, driverResponse(driver))
}

// Profile handles GET /v1/drivers/profile
func (h *DriverHandler) Profile(c *gin.Context) {
	driver, err := h.driverService.Profile(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, driverResponse(driver))
}

// ToggleActive handles PATCH /v1/drivers/toggle-active
func (h *DriverHandler) ToggleActive(c *gin.Context) {
	var req ToggleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.ToggleActive(c.Request.Context(), c.GetString(middleware.ContextUserID), *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, driverResponse(driver))
}

// ActiveDrivers handles GET /v1/drivers/active
func (h *DriverHandler) ActiveDrivers(c *gin.Context) {
	drivers, err := h.driverService.ActiveDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]DriverResponse, 0, len(drivers))
	for _, driver := range drivers {
		out = append(out, driverResponse(driver))
	}

	respondJSON(c, http.StatusOK, gin.H{"drivers": out})
}

func driverResponse(driver *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:            driver.ID,
		UserID:        driver.UserID,
		VehicleModel:  driver.VehicleModel,
		VehicleNumber: driver.VehicleNumber,
		Rating:        driver.Rating.StringFixed(2),
		IsActive:      driver.IsActive,
	}
}
