package domain

// CardDetails holds payment fields as entered by the customer.
// Values are digits-only strings except Name.
type CardDetails struct {
	Number   string
	Name     string
	ExpMonth string
	ExpYear  string
	CVV      string
}
