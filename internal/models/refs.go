package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// VendorRef is a vendor reference that tolerates both scalar and
// object-shaped JSON: "v1" and {"id":"v1","name":"..."} decode to the
// same value. The union is resolved here, once, at ingestion; the rest
// of the system only ever sees the unwrapped ID.
type VendorRef struct {
	ID   string
	Name string
}

// UnmarshalJSON accepts either a bare identifier string or an object
// carrying an "id" field.
func (r *VendorRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.ID = s
		r.Name = ""
		return nil
	}
	var obj struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("vendor reference must be a string or an object: %w", err)
	}
	if obj.ID == "" {
		return errors.New("vendor reference object missing id")
	}
	r.ID = obj.ID
	r.Name = obj.Name
	return nil
}

// MarshalJSON always emits the object form.
func (r VendorRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
	}{ID: r.ID, Name: r.Name})
}

// CategoryRef is a category reference with the same string-or-object
// tolerance as VendorRef; the grouping key is the unwrapped name.
type CategoryRef struct {
	Name string
	Slug string
}

// UnmarshalJSON accepts either a bare category name or an object
// carrying a "name" field.
func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Name = s
		r.Slug = ""
		return nil
	}
	var obj struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("category reference must be a string or an object: %w", err)
	}
	if obj.Name == "" {
		return errors.New("category reference object missing name")
	}
	r.Name = obj.Name
	r.Slug = obj.Slug
	return nil
}

// MarshalJSON always emits the object form.
func (r CategoryRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string `json:"name"`
		Slug string `json:"slug,omitempty"`
	}{Name: r.Name, Slug: r.Slug})
}
