package interview

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carenavi/triage-api/internal/domain/triage"
	"github.com/carenavi/triage-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/interviews", h.Create)
	api.GET("/interviews", h.List)
	api.GET("/interviews/:id", h.Get)
	api.GET("/interviews/:id/questions", h.Questions)
	api.POST("/interviews/:id/triage", h.SubmitTriage)
	api.POST("/interviews/:id/answers", h.SubmitAnswers)
}

type CreateRequest struct {
	PatientID   uuid.UUID `json:"patient_id"`
	SymptomText string    `json:"symptom_text"`
	CategoryID  *int      `json:"category_id,omitempty"`
	IsChild     bool      `json:"is_child"`
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	iv := &Interview{
		PatientID:   req.PatientID,
		SymptomText: req.SymptomText,
		CategoryID:  req.CategoryID,
		IsChild:     req.IsChild,
	}
	if err := h.svc.Create(c.Request().Context(), iv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, iv)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	iv, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "interview not found")
	}
	return c.JSON(http.StatusOK, iv)
}

func (h *Handler) List(c echo.Context) error {
	patientID, err := uuid.Parse(c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Questions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	questions, err := h.svc.Questions(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, questions)
}

type SubmitTriageRequest struct {
	CategoryID          int   `json:"category_id"`
	SelectedQuestionIDs []int `json:"selected_question_ids"`
}

func (h *Handler) SubmitTriage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req SubmitTriageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.SubmitTriage(c.Request().Context(), id, req.CategoryID, req.SelectedQuestionIDs)
	if err != nil {
		switch {
		case errors.Is(err, triage.ErrEmptySelection):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrAlreadyTriaged):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

type SubmitAnswersRequest struct {
	// Answers are keyed by question position, 1-based.
	Answers map[int]string `json:"answers"`
}

func (h *Handler) SubmitAnswers(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req SubmitAnswersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SubmitAnswers(c.Request().Context(), id, req.Answers); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
