package helpers

// Request/Response DTOs
type EntitySummary struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type DeleteResponse struct {
	Entity string `json:"entity"`
	ID     uint   `json:"id"`
}
