package models

import "time"

// Animal is the single record type managed by the service.
// ID and CreatedAt are assigned by the store and never change afterwards.
type Animal struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AnimalRequest carries the name for create and update.
// The name may arrive either as a query parameter or in a JSON body.
type AnimalRequest struct {
	Name string `form:"name" json:"name"`
}

// ListParams are the optional query parameters of GET /animals.
// Dates are ISO-8601 strings and are parsed by the service.
type ListParams struct {
	Sort     string `form:"sort"`
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
}

// SearchParams is the query of GET /animals/search. Name must be present but may be empty.
type SearchParams struct {
	Name string `form:"name"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
// Error is a localized category, Message the localized detail.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
