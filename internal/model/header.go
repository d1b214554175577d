package model

import (
	"time"

	"github.com/cleared-dev/balancete/internal/period"
)

// Header carries the metadata extracted from a balancete's 3-row preamble.
type Header struct {
	Company        string        `json:"empresa"`
	TaxID          string        `json:"cnpj"`
	PeriodStart    time.Time     `json:"periodo_inicio"`
	PeriodEnd      time.Time     `json:"periodo_fim"`
	IssuedAt       time.Time     `json:"emissao"`
	ReferenceMonth period.Period `json:"mes_referencia"`
	Kind           StatementKind `json:"tipo"`
}

// Annual reports whether the balancete covers a full calendar year.
func (h Header) Annual() bool {
	return h.Kind == KindAnnual
}
