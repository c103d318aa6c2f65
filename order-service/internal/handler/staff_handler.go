package handler

import (
	"cleaning-app/order-service/internal/models"
	"cleaning-app/order-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	service services.StaffService
}

func NewStaffHandler(service services.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

func (h *StaffHandler) Register(r gin.IRouter) {
	staff := r.Group("/staff/:id")
	{
		staff.GET("", h.GetProfile)
		staff.PUT("", h.UpdateProfile)
		staff.PUT("/online", h.SetOnline)
		staff.PUT("/location", h.UpdateLocation)
		staff.GET("/settings", h.GetSettings)
		staff.PUT("/settings", h.UpdateSettings)
	}
}

func (h *StaffHandler) GetProfile(c *gin.Context) {
	staff, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	staff, err := h.service.UpdateProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) SetOnline(c *gin.Context) {
	var req struct {
		Online *bool `json:"online" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	staff, err := h.service.SetOnline(c.Request.Context(), c.Param("id"), *req.Online)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) UpdateLocation(c *gin.Context) {
	var loc models.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	staff, err := h.service.UpdateLocation(c.Request.Context(), c.Param("id"), loc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *StaffHandler) UpdateSettings(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	updated, err := h.service.UpdateSettings(c.Request.Context(), c.Param("id"), settings)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
