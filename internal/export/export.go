// Package export renders budgets as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/budget-tracker/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	SummarySheet  = "Summary"
	ExpensesSheet = "Expenses"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Report is everything that is exported for a budget.
type Report struct {
	Budget     models.Budget
	Categories []models.Category
	Expenses   []models.ExpenseWithCategory
}

// formatter formats amounts for display in one locale.
type formatter struct {
	printer  *message.Printer
	currency currency.Unit
}

func newFormatter(tag language.Tag) formatter {
	cur, _ := currency.FromTag(tag)

	return formatter{
		printer:  message.NewPrinter(tag),
		currency: cur,
	}
}

func (f formatter) amount(d decimal.Decimal) string {
	return f.printer.Sprintf("%v %v", currency.Symbol(f.currency), number.Decimal(d.InexactFloat64(), number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// setRow writes the values into consecutive cells of a row, starting at column A.
func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}

		if d, ok := v.(decimal.Decimal); ok {
			v = d.InexactFloat64()
		}

		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}

	return nil
}

// Budget writes the report as XLSX workbook to w.
//
// Amounts are written as numbers. The Display column of the summary
// contains the remaining amount formatted for the given locale.
func Budget(w io.Writer, report Report, tag language.Tag) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", SummarySheet, err)
	}

	if err := summary(f, report, newFormatter(tag)); err != nil {
		return fmt.Errorf("writing sheet %s: %w", SummarySheet, err)
	}

	if _, err := f.NewSheet(ExpensesSheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", ExpensesSheet, err)
	}

	if err := expenses(f, report.Expenses); err != nil {
		return fmt.Errorf("writing sheet %s: %w", ExpensesSheet, err)
	}

	return f.Write(w)
}

func summary(f *excelize.File, report Report, format formatter) error {
	b := report.Budget
	remaining := b.TotalAllocation.Sub(b.TotalExpense)

	rows := [][]any{
		{"Budget", b.Name},
		{"Details", b.Details},
		{"Allocated", b.TotalAllocation, format.amount(b.TotalAllocation)},
		{"Spent", b.TotalExpense, format.amount(b.TotalExpense)},
		{"Remaining", remaining, format.amount(remaining)},
		{},
		{"Category", "Allocation", "Spent", "Remaining", "Display"},
	}

	for _, c := range report.Categories {
		rows = append(rows, []any{c.Name, c.Allocation, c.TotalExpense, c.Remaining(), format.amount(c.Remaining())})
	}

	for i, values := range rows {
		if err := setRow(f, SummarySheet, i+1, values...); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 20); err != nil {
		return err
	}

	return f.SetColWidth(SummarySheet, "B", "E", 14)
}

func expenses(f *excelize.File, expenses []models.ExpenseWithCategory) error {
	if err := setRow(f, ExpensesSheet, 1, "Date", "Category", "Amount", "Note"); err != nil {
		return err
	}

	for i, e := range expenses {
		if err := setRow(f, ExpensesSheet, i+2, e.Date.String(), e.CategoryName, e.Amount, e.Note); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(ExpensesSheet, "A", "C", 12); err != nil {
		return err
	}

	return f.SetColWidth(ExpensesSheet, "D", "D", 30)
}
