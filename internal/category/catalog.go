// Package category merges the built-in and custom category catalogs and
// resolves category ids for display.
package category

import "github.com/Veraticus/lifeos/internal/model"

// Fallback display values for ids that match no category.
const (
	FallbackName  = "Other"
	FallbackColor = "#6B7280"
)

// OtherID is the built-in catch-all expense category.
const OtherID = "outros"

// DefaultColor is the color offered for new records.
const DefaultColor = "#9333EA"

// builtIn is the process-constant catalog. Ids are stable storage keys.
var builtIn = []model.Category{
	{ID: "alimentacao", Name: "Food", Color: "#9333EA", Icon: model.IconShoppingCart, Type: model.TypeExpense},
	{ID: "transporte", Name: "Transport", Color: "#C084FC", Icon: model.IconCar, Type: model.TypeExpense},
	{ID: "lazer", Name: "Leisure", Color: "#E9D5FF", Icon: model.IconCoffee, Type: model.TypeExpense},
	{ID: "moradia", Name: "Housing", Color: "#F3E8FF", Icon: model.IconHome, Type: model.TypeExpense},
	{ID: "saude", Name: "Health", Color: "#A855F7", Icon: model.IconTarget, Type: model.TypeExpense},
	{ID: "educacao", Name: "Education", Color: "#7C3AED", Icon: model.IconTarget, Type: model.TypeExpense},
	{ID: "salario", Name: "Salary", Color: "#10B981", Icon: model.IconTrendingUp, Type: model.TypeIncome},
	{ID: "investimentos", Name: "Investments", Color: "#059669", Icon: model.IconTrendingUp, Type: model.TypeIncome},
	{ID: OtherID, Name: "Other", Color: "#6B7280", Icon: model.IconDollarSign, Type: model.TypeExpense},
}

// BuiltIn returns a copy of the built-in catalog.
func BuiltIn() []model.Category {
	out := make([]model.Category, len(builtIn))
	copy(out, builtIn)
	return out
}

// Catalog holds the two category populations separately. BuiltIn never
// changes; Custom is replaced by every snapshot of the user's categories.
type Catalog struct {
	BuiltIn []model.Category
	Custom  []model.Category
}

// NewCatalog creates a catalog over the built-ins and the given customs.
func NewCatalog(custom []model.Category) Catalog {
	return Catalog{BuiltIn: BuiltIn(), Custom: custom}
}

// WithCustom returns the catalog with its custom population replaced.
func (c Catalog) WithCustom(custom []model.Category) Catalog {
	c.Custom = custom
	return c
}

// Effective returns built-ins followed by customs.
func (c Catalog) Effective() []model.Category {
	out := make([]model.Category, 0, len(c.BuiltIn)+len(c.Custom))
	out = append(out, c.BuiltIn...)
	return append(out, c.Custom...)
}

// Info is the display form of a resolved category.
type Info struct {
	ID    string
	Name  string
	Color string
	Icon  model.Icon
	Type  model.TransactionType
	// Miss is set when the id matched nothing and the fallback was used.
	Miss bool
}

// Resolve returns the first category in effective whose id matches. A
// custom category reusing a built-in id is therefore shadowed.
func Resolve(id string, effective []model.Category) Info {
	for _, c := range effective {
		if c.ID == id {
			return Info{
				ID:    c.ID,
				Name:  c.Name,
				Color: c.Color,
				Icon:  model.ParseIcon(string(c.Icon)),
				Type:  c.Type,
			}
		}
	}
	return Info{
		ID:    id,
		Name:  FallbackName,
		Color: FallbackColor,
		Icon:  model.IconGeneric,
		Miss:  true,
	}
}

// Lookup returns the first category with id, if any.
func Lookup(id string, effective []model.Category) (model.Category, bool) {
	for _, c := range effective {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// FilterByType returns the categories of type t in catalog order.
func FilterByType(effective []model.Category, t model.TransactionType) []model.Category {
	var out []model.Category
	for _, c := range effective {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
