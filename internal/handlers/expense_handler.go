package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"expensetracker/internal/dates"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/report"
	"expensetracker/internal/services"
)

// ExpenseHandler handles ledger requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	reportService  services.ReportServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, reportService services.ReportServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, reportService: reportService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
// A non-blank NewCategory replaces Category.
type CreateExpenseRequest struct {
	Date        string           `json:"date" binding:"required,expense_date"`
	Category    string           `json:"category" binding:"max=100"`
	NewCategory string           `json:"new_category" binding:"max=100"`
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number"`
}

// UpdateExpenseRequest represents a partial update; omitted fields keep their value.
type UpdateExpenseRequest struct {
	Date     *string          `json:"date" binding:"omitempty,expense_date"`
	Category *string          `json:"category" binding:"omitempty,notblank,max=100"`
	Amount   *decimal.Decimal `json:"amount" swaggertype:"number"`
}

// ExpenseResponse represents an expense in the response
type ExpenseResponse struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

func toExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:       e.ID,
		Date:     dates.Format(e.Date),
		Category: e.Category,
		Amount:   amountOf(e.Amount),
	}
}

// MonthGroupResponse is one month of the grouped expense list.
type MonthGroupResponse struct {
	Title    string            `json:"title"`
	Month    string            `json:"month"`
	Total    float64           `json:"total"`
	Expenses []ExpenseResponse `json:"expenses"`
}

func toMonthGroupResponses(groups []report.MonthGroup) []MonthGroupResponse {
	out := make([]MonthGroupResponse, len(groups))
	for i, g := range groups {
		expenses := make([]ExpenseResponse, len(g.Expenses))
		for j, e := range g.Expenses {
			expenses[j] = ExpenseResponse{
				ID:       e.ID,
				Date:     dates.Format(e.Date),
				Category: e.Category,
				Amount:   amountOf(e.Amount),
			}
		}
		out[i] = MonthGroupResponse{
			Title:    g.Title,
			Month:    g.Month.Format("2006-01"),
			Total:    amountOf(g.Total),
			Expenses: expenses,
		}
	}
	return out
}

// CreateExpense records a new expense
// @Summary     Create an expense
// @Description Record a dated, categorized expense. Dates may be YYYY-MM-DD, DD-MM-YYYY or DD/MM/YYYY.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} ExpenseResponse "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category := req.Category
	if strings.TrimSpace(req.NewCategory) != "" {
		category = req.NewCategory
	}

	expense, err := h.expenseService.CreateExpense(userID, date, category, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreateExpense, "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"date": dates.Format(expense.Date), "category": expense.Category, "amount": expense.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"expense": toExpenseResponse(expense)})
}

// ListExpenses returns the user's expenses
// @Summary     List expenses
// @Description Get a paginated list of the authenticated user's expenses, newest first
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       from_date query string false "Filter by start date, inclusive"
// @Param       to_date   query string false "Filter by end date, inclusive"
// @Param       category  query string false "Filter by category"
// @Success     200 {object} pagination.PageResponse[ExpenseResponse] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.ListExpenses(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(*result, toExpenseResponse))
}

func parseExpenseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter

	if v := c.Query("from_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidDate, "invalid from_date")
		}
		filter.FromDate = &d
	}

	if v := c.Query("to_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidDate, "invalid to_date")
		}
		filter.ToDate = &d
	}

	if v := strings.TrimSpace(c.Query("category")); v != "" {
		filter.Category = &v
	}

	return filter, nil
}

// GetExpense returns one expense
// @Summary     Get an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} ExpenseResponse "Expense"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": toExpenseResponse(expense)})
}

// UpdateExpense changes an expense
// @Summary     Update an expense
// @Description Update any of date, category and amount of an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to change"
// @Success     200 {object} ExpenseResponse "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.ExpenseUpdate{Category: req.Category, Amount: req.Amount}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.Date = &date
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdateExpense, "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"date": dates.Format(expense.Date), "category": expense.Category, "amount": expense.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"expense": toExpenseResponse(expense)})
}

// DeleteExpense removes an expense
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} map[string]string "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDeleteExpense, "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// GetMonthlyExpenses returns all expenses grouped by month
// @Summary     Expenses by month
// @Description All of the user's expenses grouped by calendar month, newest month first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  MonthGroupResponse "Monthly groups"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/monthly [get]
func (h *ExpenseHandler) GetMonthlyExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groups, err := h.reportService.GetMonthlyGroups(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": toMonthGroupResponses(groups)})
}

// GetCategories lists the categories in use
// @Summary     List categories
// @Description Distinct categories the user has recorded, sorted by name
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  string "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/categories [get]
func (h *ExpenseHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.expenseService.GetCategories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
