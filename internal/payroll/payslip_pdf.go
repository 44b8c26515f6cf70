package payroll

import (
	"bytes"
	"fmt"
	"strings"

	"go-hris-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

const payslipLeading = 16

// payslipLines lays out a payroll as plain text rows. Amounts are rounded
// to two places here only; stored values keep full precision.
func payslipLines(p *Payroll) []string {
	lines := []string{
		"PAYSLIP",
		"",
		fmt.Sprintf("Payroll ID: %s", p.ID),
	}
	if p.Employee != nil {
		lines = append(lines,
			fmt.Sprintf("Employee: %s (%s)", p.Employee.FullName, p.Employee.EmployeeNumber))
		if p.Employee.Department != nil {
			lines = append(lines, fmt.Sprintf("Department: %s", p.Employee.Department.Name))
		}
	} else {
		lines = append(lines, fmt.Sprintf("Employee ID: %s", p.EmployeeID))
	}
	lines = append(lines,
		fmt.Sprintf("Period: %s to %s", p.PayPeriodStart.Format(dateLayout), p.PayPeriodEnd.Format(dateLayout)),
		fmt.Sprintf("Status: %s", p.Status),
		"",
		"EARNINGS",
	)

	lines = append(lines, itemRows(p, ItemTypeEarning)...)
	lines = append(lines,
		amountRow("Gross Income", p.GrossIncome, p.CurrencyCode),
		"",
		"DEDUCTIONS",
	)
	lines = append(lines, itemRows(p, ItemTypeDeduction)...)
	lines = append(lines,
		amountRow("Total Deductions", p.TotalDeductions, p.CurrencyCode),
		"",
		amountRow("NET SALARY", p.NetSalary, p.CurrencyCode),
	)

	if tc := p.TaxCalculation; tc != nil {
		lines = append(lines, "", fmt.Sprintf("Tax rate applied: %s", tc.TaxRateUsed.String()))
	}
	return lines
}

func itemRows(p *Payroll, itemType string) []string {
	var rows []string
	for _, it := range p.Items {
		if it.ItemType == itemType {
			rows = append(rows, amountRow("  "+it.ItemName, it.Amount, p.CurrencyCode))
		}
	}
	if len(rows) == 0 {
		rows = append(rows, "  -")
	}
	return rows
}

func amountRow(label string, amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%-28s %s %s", label, currency, money.Display(amount))
}

func buildSimplePayslipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Payslip"}
	}

	var content strings.Builder
	fmt.Fprintf(&content, "BT\n/F1 11 Tf\n%d TL\n50 800 Td\n", payslipLeading)
	for i, line := range lines {
		if i > 0 {
			content.WriteString("T* ")
		}
		fmt.Fprintf(&content, "(%s) Tj\n", pdfEscape(line))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(objects)+1, xrefStart)

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
