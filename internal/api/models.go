package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an entity identifier. The backend sends some ids as strings and
// others as numbers; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// --- Auth Types ---

// LoginRequest carries the host-signed init data.
type LoginRequest struct {
	InitData string `json:"initData"`
}

// LoginUser is the user part of a login response.
type LoginUser struct {
	ID        ID     `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// --- User Types ---

// User is a profile as stored by the backend.
type User struct {
	ID                    ID     `json:"id"`
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	Email                 string `json:"email"`
	PhoneNumber           string `json:"phoneNumber"`
	SubscriptionPlan      string `json:"subscriptionPlan"`
	SubscriptionExpiresAt string `json:"subscriptionExpiresAt,omitempty"`
}

// ProfileUpdate holds the fields a user may change. Empty fields are not sent.
type ProfileUpdate struct {
	FirstName   string `json:"firstName,omitempty" validate:"max=64"`
	LastName    string `json:"lastName,omitempty" validate:"max=64"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,max=32"`
}

// --- Pet Types ---

// Pet belongs to a single user.
type Pet struct {
	ID          ID     `json:"id"`
	UserID      ID     `json:"userId"`
	Name        string `json:"name"`
	Breed       string `json:"breed"`
	Age         int    `json:"age"`
	Description string `json:"description"`
}

// PetInput is the body of pet create and update calls.
type PetInput struct {
	Name        string `json:"name" validate:"required,max=64"`
	Breed       string `json:"breed" validate:"required,max=64"`
	Age         int    `json:"age" validate:"min=1,max=40"`
	UserID      string `json:"userId" validate:"required"`
	Description string `json:"description" validate:"max=500"`
}

// --- Catalog Types ---

// Service is a one-off service from the catalog.
type Service struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	BasePrice   float64 `json:"basePrice"`
}

// Tariff is a monthly subscription plan.
type Tariff struct {
	ID           ID       `json:"id"`
	Name         string   `json:"name"`
	MonthlyPrice float64  `json:"monthlyPrice"`
	Features     []string `json:"features"`
	IsPopular    bool     `json:"isPopular"`
}

// --- Order Types ---

// PaymentRequest is the body of POST /orders/create-payment.
type PaymentRequest struct {
	UserID      string  `json:"userId"`
	TariffID    ID      `json:"tariffId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// Payment is the created payment; the client redirects to ConfirmationURL.
type Payment struct {
	ID              ID     `json:"id"`
	Status          string `json:"status"`
	ConfirmationURL string `json:"confirmationUrl"`
}

// Order is an entry of the user's order history.
type Order struct {
	ID          ID      `json:"id"`
	UserID      ID      `json:"userId"`
	TariffID    ID      `json:"tariffId"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}
