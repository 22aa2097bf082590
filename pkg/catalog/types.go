package catalog

// Item is one catalog entry as returned by the ranking engine. The response
// array is in rank order; nothing downstream may re-sort it.
type Item struct {
	ID        string `json:"id"`
	Available bool   `json:"available"`
	Rank      int    `json:"rank"`
}

type fetchItemsResponse struct {
	Items []Item `json:"items"`
}
