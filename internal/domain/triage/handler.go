package triage

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carenavi/triage-api/internal/platform/auth"
	"github.com/carenavi/triage-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/triage/questions", h.ListQuestions)
	api.GET("/triage/questions/:id", h.GetQuestion)
	api.POST("/triage/evaluate", h.Evaluate)

	manage := auth.RequireRole(auth.RoleAdmin, auth.RoleVendor)
	api.POST("/triage/questions", h.CreateQuestion, manage)
	api.PUT("/triage/questions/:id", h.UpdateQuestion, manage)
	api.DELETE("/triage/questions/:id", h.DeleteQuestion, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) CreateQuestion(c echo.Context) error {
	var q Question
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateQuestion(c.Request().Context(), &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, q)
}

func (h *Handler) GetQuestion(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	q, err := h.svc.GetQuestion(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "question not found")
	}
	return c.JSON(http.StatusOK, q)
}

func (h *Handler) ListQuestions(c echo.Context) error {
	if cid := c.QueryParam("category_id"); cid != "" {
		categoryID, err := strconv.Atoi(cid)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		items, err := h.svc.ListQuestionsByCategory(c.Request().Context(), categoryID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, items)
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListQuestions(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateQuestion(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var q Question
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	q.ID = id
	if err := h.svc.UpdateQuestion(c.Request().Context(), &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, q)
}

func (h *Handler) DeleteQuestion(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteQuestion(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// EvaluateRequest is the stateless evaluation payload used by the
// consultation front end before an interview record exists.
type EvaluateRequest struct {
	CategoryID          int   `json:"category_id"`
	SelectedQuestionIDs []int `json:"selected_question_ids"`
}

// EvaluateResponse pairs the verdict with the downstream view to navigate to.
type EvaluateResponse struct {
	Verdict *Verdict    `json:"verdict"`
	Next    Destination `json:"next"`
}

func (h *Handler) Evaluate(c echo.Context) error {
	var req EvaluateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.CategoryID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "category_id is required")
	}
	verdict, err := h.svc.Evaluate(c.Request().Context(), req.CategoryID, req.SelectedQuestionIDs)
	if err != nil {
		if errors.Is(err, ErrEmptySelection) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, EvaluateResponse{
		Verdict: verdict,
		Next:    RouteFor(verdict.UrgencyLevel),
	})
}
