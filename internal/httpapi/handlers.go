package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type createTransactionRequest struct {
	UserID      string        `json:"userId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    core.Category `json:"category"`
	Amount      core.Money    `json:"amount"`
	Date        string        `json:"date"`
}

type createTransactionResponse struct {
	Message     string           `json:"message"`
	Transaction core.Transaction `json:"transaction"`
}

type listTransactionsResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	TotalSpend   core.Money         `json:"totalSpend"`
	TotalEarned  core.Money         `json:"totalEarned"`
	TotalBalance core.Money         `json:"totalBalance"`
	Message      string             `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid data")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid data")
		return
	}

	draft := core.Draft{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        date,
	}

	tx, err := s.service.Create(r.Context(), draft)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createTransactionResponse{
		Message:     "Transaction added successfully",
		Transaction: tx,
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	txs, summary, err := s.service.ListWithSummary(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if len(txs) == 0 {
		writeError(w, http.StatusNotFound, "No transactions found")
		return
	}

	writeJSON(w, http.StatusOK, listTransactionsResponse{
		Transactions: txs,
		TotalSpend:   summary.TotalExpense,
		TotalEarned:  summary.TotalIncome,
		TotalBalance: summary.Balance,
		Message:      "Transactions fetched successfully",
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	userID := r.PathValue("userId")

	if err := s.service.Delete(r.Context(), id, userID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Transaction deleted successfully"})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": core.Categories(),
	})
}

// writeServiceError maps domain errors onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "Transaction not found")
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			applog.FieldRequestID, requestIDFrom(r.Context()),
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// parseDate accepts RFC3339 or a plain calendar date; empty means now.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}
