package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	grey      = &props.Color{Red: 80, Green: 80, Blue: 80}
	lightGrey = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// PDF renders the sheet as a one-table A4 document.
func PDF(s Sheet) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, s)
	addTableHeader(m)
	for i, r := range s.Rows {
		addTableRow(m, r, i%2 == 1)
	}
	addTotal(m, s)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, s Sheet) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(s.Title, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}),
			),
		),
		row.New(8).Add(
			col.New(6).Add(
				text.New("Job: "+s.JobID, props.Text{Size: 9, Align: align.Left, Color: grey}),
			),
			col.New(6).Add(
				text.New("Date: "+s.CreatedDate, props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
		row.New(4),
	)
}

func addTableHeader(m core.Maroto) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	cell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(cell),
			col.New(2).Add(text.New("Charge", headerText)).WithStyle(cell),
			col.New(3).Add(text.New("Description", headerText)).WithStyle(cell),
			col.New(1).Add(text.New("Hours", headerText)).WithStyle(cell),
			col.New(1).Add(text.New("Rate", headerText)).WithStyle(cell),
			col.New(1).Add(text.New("Crew", headerText)).WithStyle(cell),
			col.New(2).Add(text.New("Amount", headerText)).WithStyle(cell),
			col.New(1).Add(text.New("Billable", headerText)).WithStyle(cell),
		),
	)
}

// addTableRow marks overridden amounts with an asterisk.
func addTableRow(m core.Maroto, r Row, shaded bool) {
	base := props.Text{Size: 8, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	amount := FormatUSD(r.Amount)
	if r.Overridden {
		amount += " *"
	}

	cols := []core.Col{
		col.New(1).Add(text.New(fmt.Sprintf("%d", r.Index), base)),
		col.New(2).Add(text.New(Label(r.Type), left)),
		col.New(3).Add(text.New(r.Description, left)),
		col.New(1).Add(text.New(formatHours(r.Hours), right)),
		col.New(1).Add(text.New(formatRate(r.Rate), right)),
		col.New(1).Add(text.New(formatCrew(r.Crew), base)),
		col.New(2).Add(text.New(amount, right)),
		col.New(1).Add(text.New(yesNo(r.Billable), base)),
	}
	if shaded {
		cell := &props.Cell{BackgroundColor: lightGrey}
		for i := range cols {
			cols[i] = cols[i].WithStyle(cell)
		}
	}
	m.AddRows(row.New(7).Add(cols...))
}

func addTotal(m core.Maroto, s Sheet) {
	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	cell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}

	m.AddRows(
		row.New(6),
		row.New(8).Add(
			col.New(8).Add(text.New("Total", bold)).WithStyle(cell),
			col.New(4).Add(text.New(FormatUSD(s.Total), bold)).WithStyle(cell),
		),
		row.New(6).Add(
			col.New(12).Add(text.New("* amount entered by hand", props.Text{Size: 7, Align: align.Left, Color: grey})),
		),
	)
}
