// Package export renders a job's charge set as a downloadable sheet.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/Simplici0/movequote/internal/pricing"

	"github.com/shopspring/decimal"
)

// Row is one charge line as printed.
type Row struct {
	Index       int
	Type        pricing.ChargeType
	Description string
	Hours       *float64
	Rate        *float64
	Crew        *int
	Amount      float64
	Billable    bool
	Overridden  bool
}

// Sheet is the printable view of a charge set.
type Sheet struct {
	Title       string
	JobID       string
	CreatedDate string
	Rows        []Row
	Total       float64
}

// NewSheet flattens data to the current value of every field.
func NewSheet(data pricing.JobChargeData, generated time.Time) Sheet {
	s := Sheet{
		Title:       "Moving Quote",
		JobID:       data.JobID,
		CreatedDate: generated.Format("2006-01-02"),
		Rows:        make([]Row, 0, len(data.Items)),
		Total:       data.Total(),
	}
	for i, it := range data.Items {
		r := Row{
			Index:       i + 1,
			Type:        it.Type,
			Description: it.Description,
			Amount:      pricing.Round2(it.Amount.Value),
			Billable:    it.IsBillable.Value,
			Overridden:  it.Overridden(),
		}
		if it.Hours != nil {
			h := it.Hours.Value
			r.Hours = &h
		}
		if it.HourlyRate != nil {
			rate := it.HourlyRate.Value
			r.Rate = &rate
		}
		if it.NumberOfCrew != nil {
			c := it.NumberOfCrew.Value
			r.Crew = &c
		}
		s.Rows = append(s.Rows, r)
	}
	return s
}

// Label returns a display name for a charge type.
func Label(ct pricing.ChargeType) string {
	words := strings.Split(string(ct), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FormatUSD formats an amount as $1,234.56.
func FormatUSD(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	neg := d.IsNegative()
	raw := d.Abs().StringFixed(2)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	out := "$" + b.String() + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

func formatHours(h *float64) string {
	if h == nil {
		return ""
	}
	return decimal.NewFromFloat(*h).Round(2).String()
}

func formatRate(r *float64) string {
	if r == nil {
		return ""
	}
	return FormatUSD(*r)
}

func formatCrew(c *int) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%d", *c)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
