package models

import "sort"

// Entity describes one record type exposed to the admin editor
type Entity struct {
	Name     string
	New      func() Record
	NewSlice func() any
}

// Registry holds the entity types in registration order
var Registry = []Entity{
	{Name: "user", New: func() Record { return &User{} }, NewSlice: func() any { return &[]User{} }},
	{Name: "product", New: func() Record { return &Product{} }, NewSlice: func() any { return &[]Product{} }},
	{Name: "auction", New: func() Record { return &Auction{} }, NewSlice: func() any { return &[]Auction{} }},
	{Name: "chat", New: func() Record { return &Chat{} }, NewSlice: func() any { return &[]Chat{} }},
	{Name: "watchlist", New: func() Record { return &Watchlist{} }, NewSlice: func() any { return &[]Watchlist{} }},
	{Name: "bid", New: func() Record { return &Bid{} }, NewSlice: func() any { return &[]Bid{} }},
}

// LookupEntity finds a registered entity by name
func LookupEntity(name string) (Entity, bool) {
	for _, e := range Registry {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

// EntityNames returns the registered names sorted alphabetically
func EntityNames() []string {
	names := make([]string, 0, len(Registry))
	for _, e := range Registry {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// AllModels returns one zero value per table, for schema migration
func AllModels() []any {
	models := make([]any, 0, len(Registry))
	for _, e := range Registry {
		models = append(models, e.New())
	}
	return models
}
