package domain

import (
	"github.com/shopspring/decimal"
)

// Prices go over the wire and into the cart slot as plain JSON numbers
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Beer is a purchasable product from the bar's catalog
type Beer struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Description       string          `json:"description,omitempty"`
	Type              BeerType        `json:"type,omitempty"`
	Country           string          `json:"country,omitempty"`
	AlcoholPercentage *float64        `json:"alcoholPercentage,omitempty"`
	Available         bool            `json:"available"`
}

// Event is a scheduled happening at the bar
type Event struct {
	ID                  int64  `json:"id"`
	Title               string `json:"title"`
	Date                string `json:"date"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	Artist              string `json:"artist"`
	Description         string `json:"description"`
	Emoji               string `json:"emoji"`
	FreeEntry           bool   `json:"freeEntry"`
	ReservationRequired bool   `json:"reservationRequired"`
}

// Order is the client's cached copy of a backend-owned order
type Order struct {
	ID              int64           `json:"id"`
	CustomerAge     int             `json:"customerAge"`
	HasStudentCard  bool            `json:"hasStudentCard"`
	Status          OrderStatus     `json:"status"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
	CreatedAt       string          `json:"createdAt,omitempty"`
	UpdatedAt       string          `json:"updatedAt,omitempty"`
}

// OrderLineBeer is the beer reference embedded in an order line
type OrderLineBeer struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// OrderLine is one purchased beer within an order
type OrderLine struct {
	ID        int64           `json:"id"`
	Beer      OrderLineBeer   `json:"beer"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// ReservationEvent is the event reference embedded in a reservation
type ReservationEvent struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Reservation is a booking against an event's capacity
type Reservation struct {
	ID             int64             `json:"id"`
	Event          ReservationEvent  `json:"event"`
	CustomerName   string            `json:"customerName"`
	CustomerEmail  string            `json:"customerEmail"`
	NumberOfGuests int               `json:"numberOfGuests"`
	Status         ReservationStatus `json:"status"`
	CreatedAt      string            `json:"createdAt,omitempty"`
	UpdatedAt      string            `json:"updatedAt,omitempty"`
}

// ContactMessage is a message submitted through the contact page
type ContactMessage struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject,omitempty"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt,omitempty"`
	Read      bool   `json:"read,omitempty"`
}

// Weather is the current weather shown on the contact page
type Weather struct {
	City         string  `json:"city"`
	Temperature  float64 `json:"temperature"`
	Condition    string  `json:"condition"`
	Icon         string  `json:"icon"`
	Humidity     int     `json:"humidity"`
	WindSpeed    float64 `json:"windSpeed"`
	Success      bool    `json:"success"`
	ErrorMessage string  `json:"errorMessage,omitempty"`
}
