package api

import (
	"time"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/pattern"
	"github.com/Veraticus/bookkeeper/internal/report"
	"github.com/shopspring/decimal"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// CategoryRequest is the body of POST /api/categories.
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
}

// CategoryResponse is one chart of accounts entry.
type CategoryResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// FileResponse is a saved import, without its raw rows.
type FileResponse struct {
	UploadedAt   time.Time `json:"uploaded_at"`
	OriginalName string    `json:"original_name"`
	DisplayName  string    `json:"display_name"`
	ID           int64     `json:"id"`
}

// RenameFileRequest is the body of PATCH /api/files/:id.
type RenameFileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// TransactionResponse is one saved transaction.
type TransactionResponse struct {
	Original    map[string]string `json:"original,omitempty"`
	Date        string            `json:"date"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Amount      decimal.Decimal   `json:"amount"`
	Confidence  float64           `json:"confidence"`
	ID          int64             `json:"id"`
	FileID      int64             `json:"file_id"`
}

// SetCategoryRequest is the body of PATCH /api/files/:id/transactions/:txn.
type SetCategoryRequest struct {
	Category string `json:"category"`
	Remember bool   `json:"remember"`
}

// SuggestRequest is the body of POST /api/suggest. Amount accepts any format the importer does.
type SuggestRequest struct {
	Description string `json:"description" binding:"required"`
	Amount      string `json:"amount"`
}

// MatchResponse is a similar history row.
type MatchResponse struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Similarity  float64 `json:"similarity"`
}

// SuggestResponse is a category suggestion.
type SuggestResponse struct {
	Category   string          `json:"category"`
	Reason     string          `json:"reason"`
	Matches    []MatchResponse `json:"matches"`
	Confidence float64         `json:"confidence"`
}

// RowResponse is one statement row. Values are keyed by period.
type RowResponse struct {
	Values   map[string]decimal.Decimal `json:"values"`
	Type     string                     `json:"type"`
	Category string                     `json:"category"`
	Total    decimal.Decimal            `json:"total"`
}

// StatementResponse is a profit and loss statement.
type StatementResponse struct {
	Margins      map[string]decimal.Decimal `json:"margins"`
	Periods      []string                   `json:"periods"`
	Rows         []RowResponse              `json:"rows"`
	StartingCash decimal.Decimal            `json:"starting_cash"`
}

func toCategoryListResponse(categories []model.Category) CategoryListResponse {
	resp := CategoryListResponse{Categories: make([]CategoryResponse, 0, len(categories))}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, CategoryResponse{Name: c.Name, Type: string(c.Type)})
	}
	return resp
}

func toFileResponse(f model.File) FileResponse {
	return FileResponse{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		DisplayName:  f.DisplayName,
		UploadedAt:   f.UploadedAt,
	}
}

func toTransactionResponses(txns []model.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, TransactionResponse{
			ID:          t.ID,
			FileID:      t.FileID,
			Date:        t.Date,
			Description: t.Description,
			Amount:      t.Amount,
			Category:    t.Category,
			Confidence:  t.Confidence,
			Original:    t.Original,
		})
	}
	return out
}

func toSuggestResponse(s pattern.Suggestion) SuggestResponse {
	resp := SuggestResponse{
		Category:   s.Category,
		Confidence: s.Confidence,
		Reason:     s.Reason,
		Matches:    make([]MatchResponse, 0, len(s.Matches)),
	}
	for _, m := range s.Matches {
		resp.Matches = append(resp.Matches, MatchResponse{
			Description: m.Description,
			Category:    m.Category,
			Similarity:  m.Similarity,
		})
	}
	return resp
}

func toStatementResponse(stmt *report.Statement) StatementResponse {
	resp := StatementResponse{
		Periods:      make([]string, 0, len(stmt.Periods)),
		Rows:         make([]RowResponse, 0, len(stmt.Rows)),
		Margins:      make(map[string]decimal.Decimal),
		StartingCash: stmt.StartingCash,
	}
	for _, p := range stmt.Periods {
		resp.Periods = append(resp.Periods, string(p))
	}
	for _, row := range stmt.Rows {
		values := make(map[string]decimal.Decimal, len(stmt.Periods))
		for _, p := range stmt.Periods {
			values[string(p)] = row.Value(p)
		}
		resp.Rows = append(resp.Rows, RowResponse{
			Type:     row.Type,
			Category: row.Category,
			Values:   values,
			Total:    row.Total,
		})
	}
	for _, label := range report.MarginLabels {
		if margin, ok := stmt.Margin(label); ok {
			resp.Margins[label] = margin
		}
	}
	return resp
}
