package model

// Category is the intent assigned to an inbound message.
type Category string

const (
	CategoryQuestion Category = "QUESTION"
	CategoryRefund   Category = "REFUND"
	CategoryOther    Category = "OTHER"
)

// ParseCategory maps a raw classifier output to a Category. Anything out
// of vocabulary resolves to QUESTION, the legitimate-inquiry default.
func ParseCategory(raw string) Category {
	switch Category(raw) {
	case CategoryQuestion, CategoryRefund, CategoryOther:
		return Category(raw)
	default:
		return CategoryQuestion
	}
}

// Importance is the audit priority assigned to unhandled messages.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// ParseImportance maps raw classifier output to an Importance level,
// defaulting to low.
func ParseImportance(raw string) Importance {
	switch Importance(raw) {
	case ImportanceLow, ImportanceMedium, ImportanceHigh:
		return Importance(raw)
	default:
		return ImportanceLow
	}
}

// Message is an inbound mail message as fetched from the provider.
// Immutable once fetched.
type Message struct {
	ID      string
	Subject string
	Body    string
	Sender  string
	Account string
}
