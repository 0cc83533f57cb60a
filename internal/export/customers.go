package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"syntra-backoffice/internal/pricing"
)

var ErrNothingToExport = errors.New("there are no customers to export")

const ContentTypeCSV = "text/csv; charset=utf-8"

var customerHeader = []string{"Name", "Email", "Phone", "Address", "Tax ID", "Credit Limit", "Current Balance", "Status"}

type CustomerRow struct {
	Name           string
	Email          string
	Phone          string
	Address        string
	TaxID          string
	CreditLimit    decimal.Decimal
	CurrentBalance decimal.Decimal
	IsActive       bool
}

// CustomersFilename is stamped with the export date.
func CustomersFilename(day time.Time) string {
	return fmt.Sprintf("customers_%s.csv", day.Format("2006-01-02"))
}

// CustomersCSV writes the header line and one fully quoted line per customer.
func CustomersCSV(rows []CustomerRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}

	var buf bytes.Buffer
	writeLine(&buf, customerHeader)
	for _, r := range rows {
		status := "Inactive"
		if r.IsActive {
			status = "Active"
		}
		writeLine(&buf, []string{
			r.Name,
			r.Email,
			r.Phone,
			r.Address,
			r.TaxID,
			pricing.Money(r.CreditLimit),
			pricing.Money(r.CurrentBalance),
			status,
		})
	}
	return buf.Bytes(), nil
}

func writeLine(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(quote(f))
	}
	buf.WriteByte('\n')
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
