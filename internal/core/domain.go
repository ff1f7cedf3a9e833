package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly BillingCycle = "monthly"
	Yearly  BillingCycle = "yearly"
)

// DateLayout is the ISO 8601 calendar date layout used for renewal dates.
const DateLayout = "2006-01-02"

type (
	BillingCycle string

	// Subscription is a recurring service as persisted in the slot.
	// Field names and JSON keys are the stored format; changing them breaks existing data.
	Subscription struct {
		ID           string       `json:"id"`
		Name         string       `json:"name"`
		Cost         float64      `json:"cost"`
		BillingCycle BillingCycle `json:"billing_cycle"`
		RenewalDate  string       `json:"renewal_date"`
		Category     string       `json:"category"`
		Notes        string       `json:"notes"`
	}

	// Fields is a subscription without its identifier, used when adding.
	Fields struct {
		Name         string
		Cost         float64
		BillingCycle BillingCycle
		RenewalDate  string
		Category     string
		Notes        string
	}

	// Patch holds the fields to replace on update. Nil pointers are left untouched.
	Patch struct {
		Name         *string
		Cost         *float64
		BillingCycle *BillingCycle
		RenewalDate  *string
		Category     *string
		Notes        *string
	}
)

var (
	ErrEmptyName          = errors.New("empty name")
	ErrNameTooLong        = errors.New("name too long (max 200 characters)")
	ErrInvalidCost        = errors.New("invalid cost")
	ErrInvalidCycle       = errors.New("invalid billing cycle")
	ErrInvalidRenewalDate = errors.New("invalid renewal date")
)

// IsValid reports whether bc is one of the known billing cycles.
func (bc BillingCycle) IsValid() bool {
	switch bc {
	case Monthly, Yearly:
		return true
	default:
		return false
	}
}

func (bc BillingCycle) String() string {
	return string(bc)
}

// ParseBillingCycle normalizes user input into a BillingCycle.
func ParseBillingCycle(s string) (BillingCycle, error) {
	bc := BillingCycle(strings.ToLower(strings.TrimSpace(s)))
	if !bc.IsValid() {
		return "", ErrInvalidCycle
	}
	return bc, nil
}

// ParseRenewalDate parses a renewal date at UTC midnight.
// RFC 3339 timestamps are accepted and truncated to their calendar date.
func ParseRenewalDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidRenewalDate
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// WithID builds the stored record for these fields.
func (f Fields) WithID(id string) Subscription {
	return Subscription{
		ID:           id,
		Name:         f.Name,
		Cost:         f.Cost,
		BillingCycle: f.BillingCycle,
		RenewalDate:  f.RenewalDate,
		Category:     f.Category,
		Notes:        f.Notes,
	}
}

// Fields strips the identifier.
func (s Subscription) Fields() Fields {
	return Fields{
		Name:         s.Name,
		Cost:         s.Cost,
		BillingCycle: s.BillingCycle,
		RenewalDate:  s.RenewalDate,
		Category:     s.Category,
		Notes:        s.Notes,
	}
}

// Apply merges the patch over s. The identifier is always kept.
func (p Patch) Apply(s Subscription) Subscription {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Cost != nil {
		s.Cost = *p.Cost
	}
	if p.BillingCycle != nil {
		s.BillingCycle = *p.BillingCycle
	}
	if p.RenewalDate != nil {
		s.RenewalDate = *p.RenewalDate
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	return s
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Cost == nil && p.BillingCycle == nil &&
		p.RenewalDate == nil && p.Category == nil && p.Notes == nil
}

// Validate checks the fields the way the entry form does before calling the store.
func (f Fields) Validate() error {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 200 {
		return ErrNameTooLong
	}
	if f.Cost <= 0 {
		return ErrInvalidCost
	}
	if !f.BillingCycle.IsValid() {
		return ErrInvalidCycle
	}
	if _, err := ParseRenewalDate(f.RenewalDate); err != nil {
		return err
	}
	return nil
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("empty id")
	}
	return s.Fields().Validate()
}
