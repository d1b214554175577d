package balancete

import (
	"fmt"
	"regexp"
	"time"

	"github.com/cleared-dev/balancete/internal/model"
	"github.com/cleared-dev/balancete/internal/period"
	"github.com/cleared-dev/balancete/internal/sheet"
)

// Preamble layout: row 0 holds company (col 0) and period range (col 5);
// row 1 holds CNPJ (col 0) and issue timestamp (col 5); row 2 is the
// column caption row and carries no metadata.
const headerRows = 3

var (
	periodPattern = regexp.MustCompile(`(?i)per[ií]odo:\s*(\d{2}/\d{2}/\d{4})\s*[àa]\s*(\d{2}/\d{2}/\d{4})`)
	cnpjPattern   = regexp.MustCompile(`(?i)cnpj:\s*([\d./-]+)`)
	issuePattern  = regexp.MustCompile(`(?i)emiss[ãa]o:\s*(\d{2}/\d{2}/\d{4})\s+(\d{2}:\d{2}:\d{2})`)
)

const (
	dayFormat   = "02/01/2006"
	issueFormat = "02/01/2006 15:04:05"
)

// ExtractHeader reads the fixed preamble of a balancete grid.
func ExtractHeader(grid sheet.Grid) (model.Header, error) {
	company := grid.At(0, 0).String()
	if company == "" {
		return model.Header{}, &MissingFieldError{Field: "empresa"}
	}

	periodCell := grid.At(0, 5).String()
	pm := periodPattern.FindStringSubmatch(periodCell)
	if pm == nil {
		return model.Header{}, &MalformedHeaderError{Field: "periodo", Value: periodCell}
	}
	start, err := time.Parse(dayFormat, pm[1])
	if err != nil {
		return model.Header{}, fmt.Errorf("%w: %w", &MalformedHeaderError{Field: "periodo", Value: pm[1]}, err)
	}
	end, err := time.Parse(dayFormat, pm[2])
	if err != nil {
		return model.Header{}, fmt.Errorf("%w: %w", &MalformedHeaderError{Field: "periodo", Value: pm[2]}, err)
	}

	cnpjCell := grid.At(1, 0).String()
	cm := cnpjPattern.FindStringSubmatch(cnpjCell)
	if cm == nil {
		return model.Header{}, &MalformedHeaderError{Field: "cnpj", Value: cnpjCell}
	}

	issueCell := grid.At(1, 5).String()
	im := issuePattern.FindStringSubmatch(issueCell)
	if im == nil {
		return model.Header{}, &MalformedHeaderError{Field: "emissao", Value: issueCell}
	}
	issued, err := time.Parse(issueFormat, im[1]+" "+im[2])
	if err != nil {
		return model.Header{}, fmt.Errorf("%w: %w", &MalformedHeaderError{Field: "emissao", Value: issueCell}, err)
	}

	kind := model.KindMonthly
	if start.Day() == 1 && start.Month() == time.January &&
		end.Day() == 31 && end.Month() == time.December {
		kind = model.KindAnnual
	}

	return model.Header{
		Company:        company,
		TaxID:          cm[1],
		PeriodStart:    start,
		PeriodEnd:      end,
		IssuedAt:       issued,
		ReferenceMonth: period.FromTime(end),
		Kind:           kind,
	}, nil
}
