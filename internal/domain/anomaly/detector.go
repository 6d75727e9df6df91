// Package anomaly contiene las reglas del reporte de detección de anomalías sobre
// ítems de gasto aprobados o pagados.
//
// Las reglas se evalúan en orden (High Value, Vague Description, Weekend Spending) y
// el resultado se une por id de ítem: si un ítem cae en varias reglas, la razón que
// se muestra es la de la última regla que lo marcó.
package anomaly

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Razones de marcado.
const (
	ReasonHighValue = "High Value"
	ReasonVague     = "Vague Description"
	ReasonWeekend   = "Weekend Spending"
)

const (
	// MinDescriptionLength descripciones con menos caracteres se consideran vagas.
	MinDescriptionLength = 10
	// StdDevMultiplier número de desviaciones estándar sobre la media que marca un monto alto.
	StdDevMultiplier = 2
)

// Candidate ítem de un reporte aprobado o pagado dentro del período consultado.
type Candidate struct {
	ItemID       string
	ReportID     string
	ItemDate     time.Time
	EmployeeName string
	Department   string
	Category     string
	Description  string
	Amount       decimal.Decimal
}

// CategoryStats media y desviación estándar poblacional de los montos de una categoría,
// calculadas por la base (AVG y STDDEV_POP).
type CategoryStats struct {
	Mean   decimal.Decimal
	StdDev decimal.Decimal
	Count  int
}

// Threshold monto a partir del cual (exclusivo) un ítem es de alto valor.
func (s CategoryStats) Threshold() decimal.Decimal {
	return s.Mean.Add(s.StdDev.Mul(decimal.NewFromInt(StdDevMultiplier)))
}

// Rule regla de marcado.
type Rule struct {
	Reason string
	Match  func(Candidate) bool
}

// HighValue marca montos sobre media + 2σ de su categoría. Categorías sin varianza no marcan.
func HighValue(stats map[string]CategoryStats) Rule {
	return Rule{
		Reason: ReasonHighValue,
		Match: func(c Candidate) bool {
			s, ok := stats[c.Category]
			if !ok || !s.StdDev.IsPositive() {
				return false
			}
			return c.Amount.GreaterThan(s.Threshold())
		},
	}
}

// VagueDescription marca descripciones de menos de MinDescriptionLength caracteres.
func VagueDescription() Rule {
	return Rule{
		Reason: ReasonVague,
		Match: func(c Candidate) bool {
			return utf8.RuneCountInString(c.Description) < MinDescriptionLength
		},
	}
}

// WeekendSpending marca ítems con fecha sábado o domingo.
func WeekendSpending() Rule {
	return Rule{
		Reason: ReasonWeekend,
		Match: func(c Candidate) bool {
			wd := c.ItemDate.Weekday()
			return wd == time.Saturday || wd == time.Sunday
		},
	}
}

// Flag ítem marcado. Reason es la razón vigente; Reasons todas las reglas que lo marcaron, en orden.
type Flag struct {
	Candidate
	Reason  string
	Reasons []string
}

// Detect aplica las reglas en orden, une por ItemID y ordena por fecha descendente
// (empates por ItemID descendente).
func Detect(candidates []Candidate, rules []Rule) []Flag {
	byID := make(map[string]*Flag)
	for _, r := range rules {
		for _, c := range candidates {
			if !r.Match(c) {
				continue
			}
			if f, ok := byID[c.ItemID]; ok {
				f.Reason = r.Reason
				f.Reasons = append(f.Reasons, r.Reason)
				continue
			}
			byID[c.ItemID] = &Flag{Candidate: c, Reason: r.Reason, Reasons: []string{r.Reason}}
		}
	}

	out := make([]Flag, 0, len(byID))
	for _, f := range byID {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ItemDate.Equal(out[j].ItemDate) {
			return out[i].ItemDate.After(out[j].ItemDate)
		}
		return out[i].ItemID > out[j].ItemID
	})
	return out
}
