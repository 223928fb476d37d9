// Package export writes the studio's financial ledger as an Excel
// workbook: one sheet per financial collection.
package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"toca/internal/core"
	"toca/internal/store"
)

type sheetSpec struct {
	title  string
	header []string
	rows   [][]string
}

// WriteLedger reads the three financial collections and saves the
// workbook at path, replacing any previous export.
func WriteLedger(ctx context.Context, st store.Store, path string) error {
	payments, err := st.ListPayments(ctx)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}
	expenses, err := st.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	revenues, err := st.ListOtherRevenues(ctx)
	if err != nil {
		return fmt.Errorf("list revenues: %w", err)
	}

	f, err := buildWorkbook([]sheetSpec{
		paymentsSheet(payments),
		expensesSheet(expenses),
		revenuesSheet(revenues),
	})
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func paymentsSheet(payments []core.Payment) sheetSpec {
	s := sheetSpec{
		title:  "Pagamentos",
		header: []string{"ID", "Aluno", "Valor", "Vencimento", "Pagamento", "Status"},
	}
	for _, p := range payments {
		paidAt := ""
		if p.PaymentDate != nil {
			paidAt = p.PaymentDate.ISO()
		}
		s.rows = append(s.rows, []string{
			p.ID, p.StudentID, core.FormatBRL(p.Amount.Cents),
			p.DueDate.ISO(), paidAt, string(p.Status),
		})
	}
	return s
}

func expensesSheet(expenses []core.Expense) sheetSpec {
	s := sheetSpec{
		title:  "Despesas",
		header: []string{"ID", "Descrição", "Valor", "Vencimento", "Categoria", "Status", "Pagamento"},
	}
	for _, e := range expenses {
		paidAt := ""
		if e.PaymentDate != nil {
			paidAt = e.PaymentDate.ISO()
		}
		s.rows = append(s.rows, []string{
			e.ID, e.Description, core.FormatBRL(e.Amount.Cents),
			e.DueDate.ISO(), string(e.Category), string(e.Status), paidAt,
		})
	}
	return s
}

func revenuesSheet(revenues []core.OtherRevenue) sheetSpec {
	s := sheetSpec{
		title:  "Receitas",
		header: []string{"ID", "Descrição", "Valor", "Data"},
	}
	for _, r := range revenues {
		s.rows = append(s.rows, []string{
			r.ID, r.Description, core.FormatBRL(r.Amount.Cents), r.Date.ISO(),
		})
	}
	return s
}

func buildWorkbook(sheets []sheetSpec) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.title); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(s.title); err != nil {
				f.Close()
				return nil, fmt.Errorf("new sheet %s: %w", s.title, err)
			}
		}

		for col, h := range s.header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(s.title, cell, h); err != nil {
				f.Close()
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end := colName(len(s.header)) + "1"
		_ = f.SetCellStyle(s.title, "A1", end, bold)
		_ = f.AutoFilter(s.title, "A1:"+end, nil)

		for r, row := range s.rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(s.title, cell, val); err != nil {
					f.Close()
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}

		// Width heuristic: longest value in each column, clamped.
		for c := 1; c <= len(s.header); c++ {
			widest := len(s.header[c-1])
			for _, row := range s.rows {
				if l := len([]rune(row[c-1])); l > widest {
					widest = l
				}
			}
			w := float64(widest) * 0.9
			if w < 12 {
				w = 12
			}
			if w > 40 {
				w = 40
			}
			_ = f.SetColWidth(s.title, colName(c), colName(c), w)
		}
	}
	return f, nil
}

func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}
