package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	MethodCash       PaymentMethod = "cash"
	MethodBank       PaymentMethod = "bank"
	MethodCreditCard PaymentMethod = "credit_card"
)

const dateLayout = "2006-01-02"

type (
	TransactionType string

	PaymentMethod string

	// Date is a calendar date. The time part is always midnight UTC.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID            string          `json:"id"`
		Type          TransactionType `json:"type"`
		Amount        Money           `json:"amount"`
		Date          Date            `json:"date"`
		Description   string          `json:"description"`
		Category      string          `json:"category"`
		PaymentMethod PaymentMethod   `json:"paymentMethod"`
		CreditCardID  string          `json:"creditCardId,omitempty"`
		Paid          bool            `json:"paid"`
	}

	CreditCard struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		LastDigits string `json:"lastDigits"`
		Limit      Money  `json:"limit"`
		ClosingDay int    `json:"closingDay"`
		DueDay     int    `json:"dueDay"`
	}

	ReceivableAmount struct {
		ID           string `json:"id"`
		Description  string `json:"description"`
		Amount       Money  `json:"amount"`
		ExpectedDate Date   `json:"expectedDate"`
		Category     string `json:"category"`
		Received     bool   `json:"received"`
	}
)

// Entity is implemented by every record kind that lives in a collection.
type Entity interface {
	EntityID() string
	Validate() error
}

var (
	// ErrInvalid is wrapped by every validation error.
	ErrInvalid = errors.New("invalid record")

	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("record with this id already exists")

	ErrEmptyID            = fmt.Errorf("%w: empty id", ErrInvalid)
	ErrInvalidDate        = fmt.Errorf("%w: date cannot be zero", ErrInvalid)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be a positive number", ErrInvalid)
	ErrInvalidType        = fmt.Errorf("%w: type must be income or expense", ErrInvalid)
	ErrInvalidMethod      = fmt.Errorf("%w: payment method must be cash, bank or credit_card", ErrInvalid)
	ErrEmptyDescription   = fmt.Errorf("%w: empty description", ErrInvalid)
	ErrEmptyCategory      = fmt.Errorf("%w: empty category", ErrInvalid)
	ErrEmptyName          = fmt.Errorf("%w: empty name", ErrInvalid)
	ErrMissingCreditCard  = fmt.Errorf("%w: credit card payments need a creditCardId", ErrInvalid)
	ErrUnexpectedCard     = fmt.Errorf("%w: creditCardId is only allowed for credit card payments", ErrInvalid)
	ErrInvalidLastDigits  = fmt.Errorf("%w: lastDigits must be exactly 4 digits", ErrInvalid)
	ErrInvalidDayOfMonth  = fmt.Errorf("%w: day of month must be between 1 and 31", ErrInvalid)
	ErrDescriptionTooLong = fmt.Errorf("%w: description too long (max 200 characters)", ErrInvalid)
)

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: cannot parse date %q", ErrInvalid, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, `"`) {
		return fmt.Errorf("%w: date must be a string", ErrInvalid)
	}
	parsed, err := ParseDate(strings.Trim(s, `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (p PaymentMethod) IsValid() bool {
	switch p {
	case MethodCash, MethodBank, MethodCreditCard:
		return true
	default:
		return false
	}
}

func (t Transaction) EntityID() string { return t.ID }

// Normalize applies the payment-method rules: only credit card purchases can
// be unpaid or reference a card.
func (t Transaction) Normalize() Transaction {
	if t.PaymentMethod != MethodCreditCard {
		t.Paid = true
		t.CreditCardID = ""
	}
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	return t
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !t.PaymentMethod.IsValid() {
		return ErrInvalidMethod
	}
	if t.PaymentMethod == MethodCreditCard && t.CreditCardID == "" {
		return ErrMissingCreditCard
	}
	if t.PaymentMethod != MethodCreditCard && t.CreditCardID != "" {
		return ErrUnexpectedCard
	}
	return nil
}

func (c CreditCard) EntityID() string { return c.ID }

func (c CreditCard) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.LastDigits) != 4 {
		return ErrInvalidLastDigits
	}
	for _, r := range c.LastDigits {
		if r < '0' || r > '9' {
			return ErrInvalidLastDigits
		}
	}
	if err := c.Limit.Validate(); err != nil {
		return err
	}
	if !validDay(c.ClosingDay) || !validDay(c.DueDay) {
		return ErrInvalidDayOfMonth
	}
	return nil
}

func (r ReceivableAmount) EntityID() string { return r.ID }

func (r ReceivableAmount) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if len(r.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if err := r.ExpectedDate.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func validDay(d int) bool {
	return d >= 1 && d <= 31
}
