package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Customer is the contact record captured on a ticket.
// Customers are not stored on their own; each ticket carries its own copy.
type Customer struct {
	// ID is nil until the customer's first ticket is opened.
	ID    *int   `json:"id"`
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// UnmarshalJSON accepts a phone number stored either as a string or as a
// bare JSON number, which older ticket files contain.
func (c *Customer) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    *int            `json:"id"`
		Name  string          `json:"name"`
		Phone json.RawMessage `json:"phone"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ID = raw.ID
	c.Name = raw.Name
	c.Phone = ""

	phone := bytes.TrimSpace(raw.Phone)
	switch {
	case len(phone) == 0 || bytes.Equal(phone, []byte("null")):
	case phone[0] == '"':
		if err := json.Unmarshal(phone, &c.Phone); err != nil {
			return fmt.Errorf("customer phone: %w", err)
		}
	default:
		var n json.Number
		if err := json.Unmarshal(phone, &n); err != nil {
			return fmt.Errorf("customer phone: %w", err)
		}
		c.Phone = n.String()
	}
	return nil
}
