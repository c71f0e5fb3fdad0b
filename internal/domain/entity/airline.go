package entity

// Airline is a carrier from the reference directory
type Airline struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
