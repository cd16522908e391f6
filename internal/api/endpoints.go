package api

import "net/url"

// API Endpoints. Templates double as metrics labels.
const (
	// Auth endpoints
	EndpointLogin    = "/auth/login"
	EndpointValidate = "/auth/validate"

	// User endpoints
	EndpointUser = "/users/:id"

	// Pet endpoints
	EndpointPets     = "/pets"
	EndpointPet      = "/pets/:id"
	EndpointUserPets = "/pets/user/:id"

	// Catalog endpoints
	EndpointServices = "/services"
	EndpointService  = "/services/:id"
	EndpointTariffs  = "/tariffs"
	EndpointTariff   = "/tariffs/:id"

	// Order endpoints
	EndpointCreatePayment      = "/orders/create-payment"
	EndpointUserOrders         = "/orders/user/:id"
	EndpointOrder              = "/orders/:id"
	EndpointCancelSubscription = "/orders/cancel-subscription/:id"
)

func UserPath(userID string) string       { return "/users/" + url.PathEscape(userID) }
func UserPetsPath(userID string) string   { return "/pets/user/" + url.PathEscape(userID) }
func PetPath(petID string) string         { return "/pets/" + url.PathEscape(petID) }
func ServicePath(serviceID string) string { return "/services/" + url.PathEscape(serviceID) }
func TariffPath(tariffID string) string   { return "/tariffs/" + url.PathEscape(tariffID) }
func UserOrdersPath(userID string) string { return "/orders/user/" + url.PathEscape(userID) }
func OrderPath(orderID string) string     { return "/orders/" + url.PathEscape(orderID) }

func CancelSubscriptionPath(userID string) string {
	return "/orders/cancel-subscription/" + url.PathEscape(userID)
}
