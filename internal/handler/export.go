package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出当前用户的全部流水
type ExportHandler struct {
	Svc *ledger.Service
}

func NewExportHandler(svc *ledger.Service) *ExportHandler {
	return &ExportHandler{Svc: svc}
}

var exportHeaders = []string{"日期", "账户", "币种", "类别", "金额", "描述"}

func exportRecord(r *ledger.TransactionRow) []string {
	return []string{
		r.Date.Format("2006-01-02"),
		r.AccountName,
		r.Currency,
		r.CategoryName,
		r.Amount.StringFixed(2),
		r.Description,
	}
}

func exportFilename(ext string) string {
	return fmt.Sprintf("attachment; filename=\"transactions_%s.%s\"", time.Now().Format("20060102"), ext)
}

// ExportCSV 导出流水为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	rows, err := h.Svc.ExportTransactions(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", exportFilename("csv"))
	c.Status(http.StatusOK)

	// UTF-8 BOM（让 Excel 正确识别中文）
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(exportHeaders)
	for i := range rows {
		_ = writer.Write(exportRecord(&rows[i]))
	}
	writer.Flush()
}

// ExportXLSX 导出流水为 XLSX，金额列写成数字
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	rows, err := h.Svc.ExportTransactions(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "流水明细"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建工作表失败")
		return
	}

	if err := f.SetSheetRow(sheetName, "A1", &exportHeaders); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "导出失败")
		return
	}
	for i := range rows {
		r := &rows[i]
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		record := []interface{}{
			r.Date.Format("2006-01-02"),
			r.AccountName,
			r.Currency,
			r.CategoryName,
			r.Amount.InexactFloat64(),
			r.Description,
		}
		if err := f.SetSheetRow(sheetName, cell, &record); err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "导出失败")
			return
		}
	}

	// 设置列宽
	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "B", 18)
	_ = f.SetColWidth(sheetName, "C", "D", 12)
	_ = f.SetColWidth(sheetName, "E", "E", 14)
	_ = f.SetColWidth(sheetName, "F", "F", 40)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", exportFilename("xlsx"))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "导出失败")
	}
}
