package analytics

import (
	"strings"
	"time"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
)

// ResolvePeriod interpreta start/end (YYYY-MM-DD). Por defecto: primer día del mes en
// curso hasta hoy. El fin es inclusivo: se extiende hasta las 23:59:59.999999999.
func ResolvePeriod(start, end string, now time.Time) (dto.Period, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	p := dto.Period{
		Start: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
		End:   today,
	}
	if s := strings.TrimSpace(start); s != "" {
		t, err := dto.ParseDate(s)
		if err != nil {
			return dto.Period{}, domain.Invalid("start_date inválida, formato esperado YYYY-MM-DD")
		}
		p.Start = t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := dto.ParseDate(s)
		if err != nil {
			return dto.Period{}, domain.Invalid("end_date inválida, formato esperado YYYY-MM-DD")
		}
		p.End = t
	}
	if p.Start.After(p.End) {
		return dto.Period{}, domain.Invalid("start_date no puede ser posterior a end_date")
	}
	return p, nil
}

// endOfDay último instante del día de t.
func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Nanosecond)
}
