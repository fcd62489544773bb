package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/dates"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/report"
	"expensetracker/internal/services"
)

// ReportHandler serves the summary view.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SummaryQuery holds the window selection of a summary request. Range is the short
// form of a trailing window of that many months.
type SummaryQuery struct {
	Window string `form:"window" binding:"omitempty,window_kind"`
	Months int    `form:"months" binding:"omitempty,min=1,max=1200"`
	Range  int    `form:"range" binding:"omitempty,min=1,max=1200"`
	Start  string `form:"start"`
	End    string `form:"end"`
}

// WindowResponse is a resolved report window.
type WindowResponse struct {
	Kind  string `json:"kind"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// MonthTotalResponse is one bucket of a monthly series.
type MonthTotalResponse struct {
	Label string  `json:"label"`
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// BreakdownResponse is a per-category split over a range.
type BreakdownResponse struct {
	Start       string           `json:"start"`
	End         string           `json:"end"`
	Total       float64          `json:"total"`
	TopCategory string           `json:"top_category"`
	Categories  []CategoryAmount `json:"categories"`
}

// SkipResponse names a stored expense that could not be summarized.
type SkipResponse struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// SummaryResponse is the body of GET /reports/summary.
type SummaryResponse struct {
	Window       WindowResponse       `json:"window"`
	Total        float64              `json:"total"`
	TopCategory  string               `json:"top_category"`
	Categories   []CategoryAmount     `json:"categories"`
	CurrentMonth BreakdownResponse    `json:"current_month"`
	WindowMonths []MonthTotalResponse `json:"window_months"`
	ByMonth      []MonthTotalResponse `json:"by_month"`
	Included     int                  `json:"included"`
	Skipped      []SkipResponse       `json:"skipped"`
}

func toMonthTotals(series []report.MonthTotal) []MonthTotalResponse {
	out := make([]MonthTotalResponse, len(series))
	for i, m := range series {
		out[i] = MonthTotalResponse{Label: m.Label, Month: m.Month.Format("2006-01"), Total: amountOf(m.Total)}
	}
	return out
}

func toSummaryResponse(r *report.Result) SummaryResponse {
	skipped := make([]SkipResponse, len(r.Skipped))
	for i, s := range r.Skipped {
		skipped[i] = SkipResponse{ID: s.ID, Reason: string(s.Reason)}
	}

	return SummaryResponse{
		Window: WindowResponse{
			Kind:  string(r.Window.Kind),
			Start: dates.Format(r.Window.Start),
			End:   dates.Format(r.Window.End),
		},
		Total:       amountOf(r.Total),
		TopCategory: r.TopCategory,
		Categories:  categoryAmounts(r.ByCategory),
		CurrentMonth: BreakdownResponse{
			Start:       dates.Format(r.CurrentMonth.Start),
			End:         dates.Format(r.CurrentMonth.End),
			Total:       amountOf(r.CurrentMonth.Total),
			TopCategory: r.CurrentMonth.TopCategory,
			Categories:  categoryAmounts(r.CurrentMonth.ByCategory),
		},
		WindowMonths: toMonthTotals(r.WindowMonths),
		ByMonth:      toMonthTotals(r.ByMonth),
		Included:     r.Included,
		Skipped:      skipped,
	}
}

// windowSpec turns the query into a report.WindowSpec. Without an explicit window,
// range selects a trailing window and start/end a custom one.
func (q SummaryQuery) windowSpec() (report.WindowSpec, error) {
	spec := report.WindowSpec{Kind: report.WindowKind(q.Window), Months: q.Months}

	if spec.Kind == "" {
		switch {
		case q.Range > 0:
			spec.Kind = report.WindowTrailing
			spec.Months = q.Range
		case q.Start != "" || q.End != "":
			spec.Kind = report.WindowCustom
		}
	}
	if spec.Kind == report.WindowTrailing && spec.Months == 0 && q.Range > 0 {
		spec.Months = q.Range
	}

	if spec.Kind == report.WindowCustom {
		if q.Start == "" || q.End == "" {
			return spec, apperrors.WithMessage(apperrors.ErrInvalidWindow, "custom window needs both start and end")
		}
		start, err := parseDate(q.Start)
		if err != nil {
			return spec, apperrors.WithMessage(apperrors.ErrInvalidDate, "invalid start")
		}
		end, err := parseDate(q.End)
		if err != nil {
			return spec, apperrors.WithMessage(apperrors.ErrInvalidDate, "invalid end")
		}
		spec.Start, spec.End = start, end
	}

	return spec, nil
}

// GetSummary returns totals, breakdowns and trends for a window
// @Summary     Expense summary
// @Description Per-category totals over a window, the current month's breakdown and monthly trends.
// @Description Skipped lists stored expenses that could not be interpreted.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       window query string false "ytd (default), trailing, previous_year or custom"
// @Param       months query int    false "Months to look back for a trailing window"
// @Param       range  query int    false "Shorthand for window=trailing&months=N"
// @Param       start  query string false "Custom window start, inclusive"
// @Param       end    query string false "Custom window end, inclusive"
// @Success     200 {object} SummaryResponse "Summary"
// @Failure     400 {object} ErrorResponse "Invalid window"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidWindow, err.Error()))
		return
	}

	spec, err := q.windowSpec()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.reportService.GetSummary(userID, spec)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSummaryResponse(result))
}
