package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/core"
	"github.com/dogjoy/miniapp/internal/i18n"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

func outputAsJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printField(w io.Writer, name string, value any) {
	fmt.Fprintf(w, "  %-16s %v\n", name+":", value)
}

func price(amount float64) string {
	return i18n.FormatPrice("en", amount)
}

func renderServices(w io.Writer, services []api.Service, fallback bool) {
	headerColor.Fprintln(w, "SERVICES")
	fmt.Fprintf(w, "%-6s %-4s %-32s %12s\n", "ID", "", "Title", "Price")
	fmt.Fprintln(w, strings.Repeat("-", 58))
	for _, s := range services {
		fmt.Fprintf(w, "%-6s %-4s %-32s %12s\n", s.ID, s.Icon, s.Title, price(s.BasePrice))
	}
	if fallback {
		warningColor.Fprintln(w, "Backend catalog unavailable, showing the built-in list.")
	}
}

func renderService(w io.Writer, s *api.Service) {
	headerColor.Fprintf(w, "%s %s\n", s.Icon, s.Title)
	printField(w, "ID", s.ID)
	printField(w, "Price", price(s.BasePrice))
	printField(w, "Description", s.Description)
}

func renderTariffs(w io.Writer, tariffs []api.Tariff, fallback bool) {
	headerColor.Fprintln(w, "TARIFFS")
	for _, t := range tariffs {
		fmt.Fprintln(w)
		renderTariff(w, &t)
	}
	if fallback {
		fmt.Fprintln(w)
		warningColor.Fprintln(w, "Backend catalog unavailable, showing the built-in list.")
	}
}

func renderTariff(w io.Writer, t *api.Tariff) {
	title := fmt.Sprintf("[%s] %s: %s / month", t.ID, t.Name, price(t.MonthlyPrice))
	if t.IsPopular {
		successColor.Fprintln(w, title+"  ★ popular")
	} else {
		infoColor.Fprintln(w, title)
	}
	for _, f := range t.Features {
		fmt.Fprintf(w, "    • %s\n", f)
	}
}

func renderProfile(w io.Writer, v *core.ProfileView) {
	u := v.User
	headerColor.Fprintf(w, "[%s] %s\n", v.Initials, strings.TrimSpace(u.FirstName+" "+u.LastName))
	printField(w, "User ID", u.ID)
	plan := u.SubscriptionPlan
	if plan == "" {
		plan = "none"
	}
	printField(w, "Plan", plan)
	if u.SubscriptionExpiresAt != "" {
		printField(w, "Expires", u.SubscriptionExpiresAt)
	}
	if u.Email != "" {
		printField(w, "Email", u.Email)
	}
	if u.PhoneNumber != "" {
		printField(w, "Phone", u.PhoneNumber)
	}
	printField(w, "Telegram", yesNo(v.TelegramVerified))
	if v.Local {
		warningColor.Fprintln(w, "Profile could not be saved on the backend; showing local data.")
	}

	fmt.Fprintln(w)
	renderPets(w, v.Pets)
	fmt.Fprintln(w)
	renderOrders(w, v.Orders)
}

func renderPets(w io.Writer, pets []api.Pet) {
	if len(pets) == 0 {
		warningColor.Fprintln(w, "No pets")
		return
	}
	headerColor.Fprintln(w, "PETS")
	fmt.Fprintf(w, "%-10s %-20s %-20s %4s\n", "ID", "Name", "Breed", "Age")
	for _, p := range pets {
		fmt.Fprintf(w, "%-10s %-20s %-20s %4d\n", p.ID, p.Name, p.Breed, p.Age)
	}
}

func renderPet(w io.Writer, p *api.Pet) {
	headerColor.Fprintln(w, p.Name)
	printField(w, "ID", p.ID)
	printField(w, "Breed", p.Breed)
	printField(w, "Age", p.Age)
	if p.Description != "" {
		printField(w, "Description", p.Description)
	}
}

func renderOrders(w io.Writer, orders []api.Order) {
	if len(orders) == 0 {
		warningColor.Fprintln(w, "No orders")
		return
	}
	headerColor.Fprintln(w, "ORDERS")
	fmt.Fprintf(w, "%-10s %-8s %12s %-12s %s\n", "ID", "Tariff", "Amount", "Status", "Created")
	for _, o := range orders {
		fmt.Fprintf(w, "%-10s %-8s %12s %-12s %s\n", o.ID, o.TariffID, price(o.Amount), o.Status, o.CreatedAt)
	}
}

func renderOrder(w io.Writer, o *api.Order) {
	headerColor.Fprintf(w, "Order %s\n", o.ID)
	printField(w, "Tariff", o.TariffID)
	printField(w, "Amount", price(o.Amount))
	printField(w, "Status", o.Status)
	if o.Description != "" {
		printField(w, "Description", o.Description)
	}
	if o.CreatedAt != "" {
		printField(w, "Created", o.CreatedAt)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// maskToken keeps the ends of a token readable.
func maskToken(token string) string {
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:6] + "..." + token[len(token)-4:]
}
