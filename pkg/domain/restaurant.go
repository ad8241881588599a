package domain

import "strconv"

// Restaurant is a partner restaurant as served by the directory API.
// IDs come from the backing store, hence the _id wire name.
type Restaurant struct {
	ID        string  `json:"_id"`
	Name      string  `json:"name"`
	Logo      string  `json:"logo"`
	Category  string  `json:"category"`
	Location  string  `json:"location"`
	Barcode   string  `json:"barcode"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// MenuItem is one dish on a restaurant menu. Price and calories are
// strings on the wire; Price parses as a decimal for averaging.
type MenuItem struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Calories    string   `json:"calories"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// MenuSection groups menu items under a heading ("Mains", "Drinks", ...).
type MenuSection struct {
	Name  string
	Items []MenuItem
}

// Categories is the fixed category filter set shown above the
// restaurant list.
var Categories = []string{
	"Diner", "Sandwich", "Pizza", "Asian", "Vegie", "Café", "Spicy", "Drink",
}

// OrderPinned returns restaurants filtered to the given category (empty
// means all) with pinned entries floated to the front. Relative order
// within each group is preserved.
func OrderPinned(restaurants []Restaurant, pinned []string, category string) []Restaurant {
	isPinned := make(map[string]bool, len(pinned))
	for _, id := range pinned {
		isPinned[id] = true
	}

	var front, rest []Restaurant
	for _, r := range restaurants {
		if category != "" && r.Category != category {
			continue
		}
		if isPinned[r.ID] {
			front = append(front, r)
		} else {
			rest = append(rest, r)
		}
	}
	return append(front, rest...)
}

// AveragePrice computes the mean item price across all sections.
// Returns false when no item has a parseable price.
func AveragePrice(sections []MenuSection) (float64, bool) {
	var total float64
	var count int
	for _, sec := range sections {
		for _, item := range sec.Items {
			p, err := strconv.ParseFloat(item.Price, 64)
			if err != nil {
				continue
			}
			total += p
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return total / float64(count), true
}
