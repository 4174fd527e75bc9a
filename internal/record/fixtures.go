package record

import (
	"fmt"
	"sort"
)

// fixtures holds the built-in record sets by name. Each entry returns a
// fresh slice so callers can't mutate the shared literals.
var fixtures = map[string]func() []Record{
	"products": Products,
}

// Products is the product catalog seeded into productdb.products.
func Products() []Record {
	return []Record{
		MustNew("550e8400-e29b-41d4-a716-446655440002", "Laptop", 999.99, "Electronics"),
		MustNew("550e8400-e29b-41d4-a716-446655440003", "Headphones", 49.99, "Accessories"),
		MustNew("550e8400-e29b-41d4-a716-446655440006", "Smartphone", 699.99, "Electronics"),
	}
}

// Fixture returns the built-in record set registered under name.
func Fixture(name string) ([]Record, error) {
	f, ok := fixtures[name]
	if !ok {
		return nil, fmt.Errorf("unknown fixture %q (available: %v)", name, FixtureNames())
	}
	return f(), nil
}

// FixtureNames lists the built-in fixtures in sorted order.
func FixtureNames() []string {
	names := make([]string, 0, len(fixtures))
	for name := range fixtures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
