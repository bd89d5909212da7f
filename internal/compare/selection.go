package compare

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/HerbHall/ecotrace/pkg/models"
)

// Selection size bounds. A comparison needs at least MinSelection products
// and never shows more than MaxSelection side by side.
const (
	MinSelection = 2
	MaxSelection = 4
)

var (
	// ErrSelectionFull is returned when adding to a selection at capacity.
	ErrSelectionFull = errors.New("selection is full")
	// ErrSelectionMinimum is returned when a removal would leave fewer than
	// MinSelection products.
	ErrSelectionMinimum = errors.New("selection is at its minimum size")
	// ErrInvalidSelection is returned for selections with duplicate, empty,
	// or too many ids.
	ErrInvalidSelection = errors.New("invalid selection")
)

// Selection is an ordered set of product ids chosen for comparison. It is a
// value type: Add and Remove return a new Selection and never modify the
// receiver.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from ids, preserving order.
func NewSelection(ids ...string) (Selection, error) {
	if len(ids) > MaxSelection {
		return Selection{}, fmt.Errorf("%w: %d products exceeds the maximum of %d",
			ErrInvalidSelection, len(ids), MaxSelection)
	}
	for i, id := range ids {
		if id == "" {
			return Selection{}, fmt.Errorf("%w: empty product id", ErrInvalidSelection)
		}
		if slices.Contains(ids[:i], id) {
			return Selection{}, fmt.Errorf("%w: duplicate product id %q", ErrInvalidSelection, id)
		}
	}
	return Selection{ids: slices.Clone(ids)}, nil
}

// DefaultSelection returns the selection shown when the comparison view opens.
func DefaultSelection() Selection {
	return Selection{ids: []string{"1", "4"}}
}

// IDs returns a copy of the selected ids in order.
func (s Selection) IDs() []string {
	if s.ids == nil {
		return []string{}
	}
	return slices.Clone(s.ids)
}

// Len returns the number of selected products.
func (s Selection) Len() int { return len(s.ids) }

// Contains reports whether id is selected.
func (s Selection) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// Full reports whether no more products can be added.
func (s Selection) Full() bool { return len(s.ids) >= MaxSelection }

// CanRemove reports whether a product may be removed.
func (s Selection) CanRemove() bool { return len(s.ids) > MinSelection }

// Add appends id. Adding an id that is already selected is a no-op.
func (s Selection) Add(id string) (Selection, error) {
	if s.Contains(id) {
		return s, nil
	}
	if s.Full() {
		return s, fmt.Errorf("%w: cannot add %q beyond %d products", ErrSelectionFull, id, MaxSelection)
	}
	next := make([]string, len(s.ids), len(s.ids)+1)
	copy(next, s.ids)
	return Selection{ids: append(next, id)}, nil
}

// Remove drops id. The minimum size is checked first, so any removal from
// a selection of MinSelection or fewer is rejected; otherwise removing an
// id that is not selected is a no-op.
func (s Selection) Remove(id string) (Selection, error) {
	if !s.CanRemove() {
		return s, fmt.Errorf("%w: cannot go below %d products", ErrSelectionMinimum, MinSelection)
	}
	if !s.Contains(id) {
		return s, nil
	}
	next := make([]string, 0, len(s.ids)-1)
	for _, existing := range s.ids {
		if existing != id {
			next = append(next, existing)
		}
	}
	return Selection{ids: next}, nil
}

// MarshalJSON encodes the selection as an array of ids.
func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes an array of ids, enforcing selection rules.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	sel, err := NewSelection(ids...)
	if err != nil {
		return err
	}
	*s = sel
	return nil
}

// Available returns the products not yet selected, in collection order.
// A full selection yields an empty list.
func Available(products []models.Product, sel Selection) []models.Product {
	out := make([]models.Product, 0, len(products))
	if sel.Full() {
		return out
	}
	for i := range products {
		if !sel.Contains(products[i].ID) {
			out = append(out, products[i])
		}
	}
	return out
}
