package api

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/Veraticus/bookkeeper/internal/amount"
	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/registry"
	"github.com/Veraticus/bookkeeper/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listCategories(c *gin.Context) {
	chart, err := s.storage.GetChartOfAccounts(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryListResponse(chart))
}

func (s *Server) createCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	typ, err := model.ParseCategoryType(req.Type)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	name := registry.NormalizeName(req.Name)
	if name == "" {
		badRequest(c, "Category name is required")
		return
	}

	added, err := s.storage.AddCategory(c.Request.Context(), name, typ)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !added {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Category already exists", Code: CodeConflict})
		return
	}
	c.JSON(http.StatusCreated, CategoryResponse{Name: name, Type: string(typ)})
}

func (s *Server) listFiles(c *gin.Context) {
	files, err := s.storage.GetFiles(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	resp := make([]FileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, toFileResponse(f))
	}
	c.JSON(http.StatusOK, gin.H{"files": resp})
}

func (s *Server) renameFile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req RenameFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	if err := s.storage.RenameFile(ctx, id, req.DisplayName); err != nil {
		s.respondError(c, err)
		return
	}
	file, err := s.storage.GetFile(ctx, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFileResponse(*file))
}

func (s *Server) deleteFile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.storage.DeleteFile(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listFileTransactions(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.storage.GetFile(ctx, id); err != nil {
		s.respondError(c, err)
		return
	}
	txns, err := s.storage.GetTransactions(ctx, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": toTransactionResponses(txns)})
}

func (s *Server) setTransactionCategory(c *gin.Context) {
	fileID, ok := idParam(c, "id")
	if !ok {
		return
	}
	txnID, ok := idParam(c, "txn")
	if !ok {
		return
	}
	var req SetCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	name, err := s.engine.SetCategory(c.Request.Context(), fileID, txnID, req.Category, req.Remember)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": txnID, "file_id": fileID, "category": name})
}

func (s *Server) searchTransactions(c *gin.Context) {
	filter := service.TransactionFilter{Query: c.Query("q")}
	if raw := c.Query("file"); raw != "" {
		fileID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || fileID <= 0 {
			badRequest(c, "file must be a positive integer")
			return
		}
		filter.FileID = fileID
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	txns, err := s.storage.SearchTransactions(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": toTransactionResponses(txns)})
}

func (s *Server) suggest(c *gin.Context) {
	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	suggestion, err := s.engine.Suggest(c.Request.Context(), req.Description, amount.Normalize(req.Amount))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSuggestResponse(suggestion))
}

// pnlParams reads the from, to and starting_cash query parameters.
func pnlParams(c *gin.Context) (from, to time.Time, startingCash decimal.Decimal, ok bool) {
	var err error
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse(dateLayout, raw); err != nil {
			badRequest(c, "from must be YYYY-MM-DD")
			return from, to, startingCash, false
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse(dateLayout, raw); err != nil {
			badRequest(c, "to must be YYYY-MM-DD")
			return from, to, startingCash, false
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		badRequest(c, "to must not be before from")
		return from, to, startingCash, false
	}
	if raw := c.Query("starting_cash"); raw != "" {
		if startingCash, err = decimal.NewFromString(raw); err != nil {
			badRequest(c, "starting_cash must be a number")
			return from, to, startingCash, false
		}
	}
	return from, to, startingCash, true
}

func (s *Server) profitAndLoss(c *gin.Context) {
	from, to, startingCash, ok := pnlParams(c)
	if !ok {
		return
	}
	stmt, err := s.engine.ProfitAndLoss(c.Request.Context(), from, to, startingCash)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatementResponse(stmt))
}

func (s *Server) profitAndLossCSV(c *gin.Context) {
	from, to, startingCash, ok := pnlParams(c)
	if !ok {
		return
	}
	stmt, err := s.engine.ProfitAndLoss(c.Request.Context(), from, to, startingCash)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := stmt.WriteCSV(&buf); err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="profit_and_loss.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
