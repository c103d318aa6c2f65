package handler

import (
	"cleaning-app/order-service/internal/models"
	"cleaning-app/order-service/internal/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Register(r gin.IRouter) {
	reports := r.Group("/reports")
	{
		reports.POST("", h.Submit)
		reports.GET("", h.List)
		reports.GET("/:id", h.Get)
		reports.PUT("/:id/status", h.UpdateStatus)
	}
}

// Submit takes a multipart form: staff_id, type, description, optional
// order_id and an optional file.
func (h *ReportHandler) Submit(c *gin.Context) {
	in := services.NewReport{
		StaffID:     c.PostForm("staff_id"),
		OrderID:     c.PostForm("order_id"),
		Type:        models.ReportType(c.PostForm("type")),
		Description: c.PostForm("description"),
	}

	file, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file"})
		return
	default:
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
			return
		}
		defer src.Close()
		in.Attachment = &services.ReportAttachment{
			FileName:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Body:        src,
		}
	}

	report, err := h.service.Submit(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.service.List(c.Request.Context(), c.Query("staff_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status models.ReportStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	report, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
