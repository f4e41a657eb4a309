package consultation

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/docscribe/docscribe/internal/platform/auth"
	"github.com/docscribe/docscribe/internal/platform/extract"
	"github.com/docscribe/docscribe/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the capture workflow and appointment reads. Every
// route requires the doctor role; the check runs once at group level.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("doctor"))

	g.GET("/capture", h.GetSession)
	g.POST("/capture/start", h.StartCapture)
	g.POST("/capture/stop", h.StopCapture)
	g.PUT("/capture/patient", h.SetPatient)
	g.POST("/capture/edit", h.Edit)
	g.PUT("/capture/medications", h.ReplaceMedications)
	g.POST("/capture/re-record", h.ReRecord)
	g.POST("/capture/commit", h.Commit)
	g.POST("/capture/cancel", h.Cancel)
	g.POST("/capture/acknowledge", h.Acknowledge)

	g.GET("/appointments", h.ListAppointments)
	g.GET("/appointments/:id", h.GetAppointment)
	g.PATCH("/appointments/:id/status", h.UpdateStatus)
	g.POST("/appointments/:id/attachments", h.AddAttachment)
	g.GET("/appointments/:id/prescription", h.Prescription)
}

func (h *Handler) GetSession(c echo.Context) error {
	doctorID, err := doctorID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.svc.Session(doctorID))
}

func (h *Handler) StartCapture(c echo.Context) error {
	doctorID, err := doctorID(c)
	if err != nil {
		return err
	}
	if err := h.svc.StartCapture(doctorID); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, h.svc.Session(doctorID))
}

type stopCaptureRequest struct {
	Transcript string `json:"transcript"`
	AudioRef   string `json:"audio_ref"`
}

func (h *Handler) StopCapture(c echo.Context) error {
	doctorID, err := doctorID(c)
	if err != nil {
		return err
	}
	var req stopCaptureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	err = h.svc.StopCapture(c.Request().Context(), doctorID, extract.Input{
		Transcript: req.Transcript,
		AudioRef:   req.AudioRef,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, h.svc.Session(doctorID))
}

type setPatientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *Handler) SetPatient(c echo.Context) error {
	doctorID, err := doctorID(c)
	if err != nil {
		return err
	}
	var req setPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.SetPatient(doctorID, req.Name, req.Phone); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, h.svc.Session(doctorID))
}

type editRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *Handler) Edit(c echo.Context) error {
	doctorID, err := doctorID(c)
	if err != nil {
		return err
	}
	var req editRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Edit(doctorID, req.Field, req.Value); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, h.svc.Session(doctorID))
}

type medicationsRequest struct {
	Medications []MedicationEntry `json:"medications"`
}

func (h *Handler) ReplaceMedications(c echo.Context) error {
	doctorID, err := doctorID(c)
	if err != nil {
		return err
	}
	var req medicationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.ReplaceMedications(doctorID, req.Medications); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, h.svc.Session(doctorID))
}

func (h *Handler) ReRecord(c echo.Context) error {
	doctorID, err := doctorID(c)
	if err != nil {
		return err
	}
	if err := h.svc.ReRecord(doctorID); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, h.svc.Session(doctorID))
}

func (h *Handler) Commit(c echo.Context) error {
	doctorID, err := doctorID(c)
	if err != nil {
		return err
	}
	appt, err := h.svc.Commit(c.Request().Context(), doctorID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) Cancel(c echo.Context) error {
	doctorID, err := doctorID(c)
	if err != nil {
		return err
	}
	h.svc.Cancel(doctorID)
	return c.JSON(http.StatusOK, h.svc.Session(doctorID))
}

func (h *Handler) Acknowledge(c echo.Context) error {
	doctorID, err := doctorID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Acknowledge(doctorID); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, h.svc.Session(doctorID))
}

func (h *Handler) ListAppointments(c echo.Context) error {
	doctorID, err := doctorID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAppointments(c.Request().Context(), doctorID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetAppointment(c echo.Context) error {
	doctorID, apptID, err := doctorAndAppointmentID(c)
	if err != nil {
		return err
	}
	detail, err := h.svc.GetAppointment(c.Request().Context(), doctorID, apptID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	doctorID, apptID, err := doctorAndAppointmentID(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	appt, err := h.svc.UpdateAppointmentStatus(c.Request().Context(), doctorID, apptID, req.Status)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

type attachmentRequest struct {
	FilePath    string  `json:"file_path"`
	FileType    string  `json:"file_type"`
	Description *string `json:"description"`
}

func (h *Handler) AddAttachment(c echo.Context) error {
	doctorID, apptID, err := doctorAndAppointmentID(c)
	if err != nil {
		return err
	}
	var req attachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	att := &Attachment{
		AppointmentID: apptID,
		FilePath:      req.FilePath,
		FileType:      req.FileType,
		Description:   req.Description,
	}
	if err := h.svc.AddAttachment(c.Request().Context(), doctorID, att); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, att)
}

func (h *Handler) Prescription(c echo.Context) error {
	doctorID, apptID, err := doctorAndAppointmentID(c)
	if err != nil {
		return err
	}
	data, err := h.svc.PrescriptionPDF(c.Request().Context(), doctorID, apptID)
	if err != nil {
		return mapError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="prescription.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func doctorID(c echo.Context) (uuid.UUID, error) {
	raw := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}

func doctorAndAppointmentID(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	docID, err := doctorID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	apptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	return docID, apptID, nil
}

// mapError converts workflow errors to HTTP status codes.
func mapError(err error) error {
	switch {
	case errors.Is(err, ErrValidationFailed):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrExtractionFailed):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	case errors.Is(err, ErrPersistenceFailed):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
