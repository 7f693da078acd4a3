package pricing

import (
	"math"
	"sort"
)

// BoxType is one of the seven box categories.
type BoxType string

const (
	BoxSmall       BoxType = "Small"
	BoxMedium      BoxType = "Medium"
	BoxLarge       BoxType = "Large"
	BoxWardrobe    BoxType = "Wardrobe"
	BoxDishPack    BoxType = "Dish Pack"
	BoxMattressBag BoxType = "Mattress Bag"
	BoxTV          BoxType = "TV Box"
)

// BoxTypes lists every box category in display order.
var BoxTypes = []BoxType{BoxSmall, BoxMedium, BoxLarge, BoxWardrobe, BoxDishPack, BoxMattressBag, BoxTV}

// BoxAllocation holds a count for every box category. Being a struct, it is
// always fully populated.
type BoxAllocation struct {
	Small       int `json:"small" yaml:"small"`
	Medium      int `json:"medium" yaml:"medium"`
	Large       int `json:"large" yaml:"large"`
	Wardrobe    int `json:"wardrobe" yaml:"wardrobe"`
	DishPack    int `json:"dishPack" yaml:"dishPack"`
	MattressBag int `json:"mattressBag" yaml:"mattressBag"`
	TVBox       int `json:"tvBox" yaml:"tvBox"`
}

// Count returns the count for a box type.
func (a BoxAllocation) Count(t BoxType) int {
	switch t {
	case BoxSmall:
		return a.Small
	case BoxMedium:
		return a.Medium
	case BoxLarge:
		return a.Large
	case BoxWardrobe:
		return a.Wardrobe
	case BoxDishPack:
		return a.DishPack
	case BoxMattressBag:
		return a.MattressBag
	case BoxTV:
		return a.TVBox
	default:
		return 0
	}
}

func (a *BoxAllocation) set(t BoxType, n int) {
	switch t {
	case BoxSmall:
		a.Small = n
	case BoxMedium:
		a.Medium = n
	case BoxLarge:
		a.Large = n
	case BoxWardrobe:
		a.Wardrobe = n
	case BoxDishPack:
		a.DishPack = n
	case BoxMattressBag:
		a.MattressBag = n
	case BoxTV:
		a.TVBox = n
	}
}

// Total is the number of boxes across all categories.
func (a BoxAllocation) Total() int {
	total := 0
	for _, t := range BoxTypes {
		total += a.Count(t)
	}
	return total
}

// Add returns a + b scaled: a + n*b.
func (a BoxAllocation) Add(b BoxAllocation, n int) BoxAllocation {
	out := a
	for _, t := range BoxTypes {
		out.set(t, a.Count(t)+b.Count(t)*n)
	}
	return out
}

// BoxRates is a per-box-type number: a price or minutes per box.
type BoxRates struct {
	Small       float64
	Medium      float64
	Large       float64
	Wardrobe    float64
	DishPack    float64
	MattressBag float64
	TVBox       float64
}

// Rate returns the rate for a box type.
func (r BoxRates) Rate(t BoxType) float64 {
	switch t {
	case BoxSmall:
		return r.Small
	case BoxMedium:
		return r.Medium
	case BoxLarge:
		return r.Large
	case BoxWardrobe:
		return r.Wardrobe
	case BoxDishPack:
		return r.DishPack
	case BoxMattressBag:
		return r.MattressBag
	case BoxTV:
		return r.TVBox
	default:
		return 0
	}
}

// RoomCount is one room type and how many of it the property has.
type RoomCount struct {
	Room  RoomType `json:"room"`
	Count int      `json:"count"`
}

// BoxEstimate is the outcome of the box estimator.
type BoxEstimate struct {
	Mode        string        `json:"mode"`
	BaseBoxes   BoxAllocation `json:"baseBoxes"`
	Boxes       BoxAllocation `json:"boxes"`
	TotalBoxes  int           `json:"totalBoxes"`
	Rooms       []RoomCount   `json:"rooms"`
	RoomCount   int           `json:"roomCount"`
	Multiplier  float64       `json:"multiplier"`
	Recommended int           `json:"recommendedCrewSize"`
}

// Box estimate modes.
const (
	ModeFixed   = "fixed"
	ModeDynamic = "dynamic"
)

// EstimateBoxes computes the box allocation for validated inputs.
func EstimateBoxes(t *Tables, in EstimationInputs) (BoxEstimate, error) {
	multiplier, found := t.Intensity[in.intensity()]
	if !found {
		return BoxEstimate{}, calcErrorf(ErrInvalidInput, "unknown packing intensity %q", in.PackingIntensity)
	}

	var (
		base  BoxAllocation
		rooms []RoomCount
		mode  string
		count int
	)

	switch {
	case in.FixedEstimateType != "":
		fixed, found := t.FixedEstimates[in.FixedEstimateType]
		if !found {
			return BoxEstimate{}, calcErrorf(ErrInvalidInput, "unknown fixed estimate type %q", in.FixedEstimateType)
		}
		base = fixed.Boxes
		count = fixed.Rooms
		mode = ModeFixed
	case in.PropertyType != "":
		var err error
		rooms, err = resolveRooms(t, in)
		if err != nil {
			return BoxEstimate{}, err
		}
		for _, rc := range rooms {
			base = base.Add(t.Rooms[rc.Room], rc.Count)
			count += rc.Count
		}
		mode = ModeDynamic
	default:
		return BoxEstimate{}, calcErrorf(ErrInvalidInput, "property type or fixed estimate type is required")
	}

	boxes := ApplyIntensity(base, multiplier)
	return BoxEstimate{
		Mode:        mode,
		BaseBoxes:   base,
		Boxes:       boxes,
		TotalBoxes:  boxes.Total(),
		Rooms:       rooms,
		RoomCount:   count,
		Multiplier:  multiplier,
		Recommended: RecommendedCrewForBoxes(t, boxes.Total()),
	}, nil
}

// resolveRooms expands a property into room counts, applying custom overrides.
func resolveRooms(t *Tables, in EstimationInputs) ([]RoomCount, error) {
	props, found := t.Properties[in.PropertyType]
	if !found {
		return nil, calcErrorf(ErrInvalidInput, "unknown property type %q", in.PropertyType)
	}

	counts := map[RoomType]int{RoomBedroom: in.Bedrooms}
	order := []RoomType{RoomBedroom}
	for _, room := range props.BaseRooms {
		if _, seen := counts[room]; !seen {
			order = append(order, room)
		}
		counts[room]++
	}

	extra := make([]RoomType, 0, len(in.CustomRooms))
	for room := range in.CustomRooms {
		if _, seen := counts[room]; !seen {
			extra = append(extra, room)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	order = append(order, extra...)

	for room, n := range in.CustomRooms {
		if _, known := t.Rooms[room]; !known {
			return nil, calcErrorf(ErrInvalidInput, "unknown room type %q", room)
		}
		counts[room] = n
	}

	out := make([]RoomCount, 0, len(order))
	for _, room := range order {
		if counts[room] == 0 {
			continue
		}
		out = append(out, RoomCount{Room: room, Count: counts[room]})
	}
	return out, nil
}

// ApplyIntensity scales each box type independently and rounds up.
func ApplyIntensity(base BoxAllocation, multiplier float64) BoxAllocation {
	var out BoxAllocation
	for _, bt := range BoxTypes {
		out.set(bt, int(math.Ceil(float64(base.Count(bt))*multiplier)))
	}
	return out
}

// MaterialLine is one priced box type.
type MaterialLine struct {
	Type      BoxType `json:"type"`
	Count     int     `json:"count"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

// Materials is the material cost roll-up. TVRentalTotal is an alternative to
// buying TV boxes and is not part of Total.
type Materials struct {
	Lines           []MaterialLine `json:"lines"`
	Total           float64        `json:"total"`
	TVRentalPrice   float64        `json:"tvRentalPrice"`
	TVRentalTotal   float64        `json:"tvRentalTotal"`
	TotalWithRental float64        `json:"totalWithRental"`
}

// MaterialCost prices a box allocation.
func MaterialCost(t *Tables, boxes BoxAllocation) Materials {
	var m Materials
	for _, bt := range BoxTypes {
		n := boxes.Count(bt)
		price := t.MaterialPrices.Rate(bt)
		line := MaterialLine{Type: bt, Count: n, UnitPrice: price, Total: float64(n) * price}
		m.Lines = append(m.Lines, line)
		m.Total += line.Total
	}
	m.TVRentalPrice = t.MaterialPrices.TVBox * t.TVRentalFactor
	m.TVRentalTotal = float64(boxes.TVBox) * m.TVRentalPrice
	m.TotalWithRental = m.Total - float64(boxes.TVBox)*t.MaterialPrices.TVBox + m.TVRentalTotal
	return m
}

// RecommendedCrewForBoxes picks a crew from the box-count bands.
func RecommendedCrewForBoxes(t *Tables, totalBoxes int) int {
	return pickBand(t.BoxCrewBands, float64(totalBoxes))
}

func pickBand(bands []Band, v float64) int {
	for _, b := range bands {
		if b.Max >= v {
			return b.Movers
		}
	}
	return bands[len(bands)-1].Movers
}
