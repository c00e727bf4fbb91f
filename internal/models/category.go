package models

import "fmt"

// Category identifies one of the four budget categories a project network
// allocates money to. On the wire a cut record carries four amount columns
// with exactly one non-zero; inside the service the category is always this
// explicit value.
type Category string

const (
	CategoryLabor     Category = "labor"
	CategorySupervise Category = "supervise"
	CategoryTransport Category = "transport"
	CategoryMisc      Category = "misc"
)

// Categories lists all budget categories in display order.
var Categories = []Category{CategoryLabor, CategorySupervise, CategoryTransport, CategoryMisc}

// ParseCategory validates a category name coming from a request.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryLabor, CategorySupervise, CategoryTransport, CategoryMisc:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown budget category: %q", s)
}

func (c Category) String() string {
	return string(c)
}
