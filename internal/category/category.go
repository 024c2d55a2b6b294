// Package category ships the fixed category table transactions reference.
// The table is static referential data owned upstream; this core assumes
// recorded category keys always resolve against it.
package category

// Category describes one entry of the table.
type Category struct {
	Key   string
	Name  string
	Icon  string
	Color string
}

// Unset is the sentinel key meaning "no category chosen yet".
const Unset = "category"

// table order is presentation order; aggregates follow it.
var table = []Category{
	{Key: "purchases", Name: "Compras", Icon: "shopping-bag", Color: "#5636D3"},
	{Key: "food", Name: "Alimentação", Icon: "coffee", Color: "#FF872C"},
	{Key: "salary", Name: "Salário", Icon: "dollar-sign", Color: "#12A454"},
	{Key: "car", Name: "Carro", Icon: "crosshair", Color: "#E83F5B"},
	{Key: "leisure", Name: "Lazer", Icon: "heart", Color: "#26195C"},
	{Key: "studies", Name: "Estudos", Icon: "book", Color: "#9C001A"},
}

// All returns the table in presentation order.
func All() []Category {
	out := make([]Category, len(table))
	copy(out, table)
	return out
}

// Lookup finds a category by key.
func Lookup(key string) (Category, bool) {
	for _, c := range table {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// IsChosen reports whether key references an actual category rather than the
// unset sentinel or an empty value.
func IsChosen(key string) bool {
	return key != "" && key != Unset
}
