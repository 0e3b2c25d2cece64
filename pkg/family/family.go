// Package family defines the genealogical data model: persons, spouse and
// parent-child relations, and trees shared between users by role.
//
// A [Tree] is plain data. It is what users edit, what the store persists and
// what the layout engine consumes. Use [Tree.Validate] before trusting a tree
// read from outside.
package family

import (
	"fmt"
	"slices"

	"github.com/matzehuels/familytree/pkg/errors"
)

// Gender is the recorded gender of a person. Renderers use it for styling.
type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
)

// Person is a single individual in a tree.
type Person struct {
	ID     string `json:"id" toml:"id" yaml:"id" bson:"id"`
	Name   string `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty" bson:"name,omitempty"`
	Gender Gender `json:"gender,omitempty" toml:"gender,omitempty" yaml:"gender,omitempty" bson:"gender,omitempty"`
	Birth  *Date  `json:"birth,omitempty" toml:"birth,omitempty" yaml:"birth,omitempty" bson:"birth,omitempty"`
	Death  *Date  `json:"death,omitempty" toml:"death,omitempty" yaml:"death,omitempty" bson:"death,omitempty"`
	Note   string `json:"note,omitempty" toml:"note,omitempty" yaml:"note,omitempty" bson:"note,omitempty"`
}

// DisplayName returns the name, or the ID if no name was recorded.
func (p Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// BirthDate returns the birth date, the zero Date if unknown.
func (p Person) BirthDate() Date {
	if p.Birth == nil {
		return Date{}
	}
	return *p.Birth
}

// Lifespan formats the birth and death years, e.g. "1921 – 1999" or "b. 1950".
func (p Person) Lifespan() string {
	var b, d int
	if p.Birth != nil {
		b = p.Birth.Year
	}
	if p.Death != nil {
		d = p.Death.Year
	}
	switch {
	case b != 0 && d != 0:
		return fmt.Sprintf("%d – %d", b, d)
	case b != 0:
		return fmt.Sprintf("b. %d", b)
	case d != 0:
		return fmt.Sprintf("d. %d", d)
	}
	return ""
}

// RelationType distinguishes marriage-like links from descent.
type RelationType string

const (
	// RelationSpouse links two partners. Direction carries no meaning
	// except that From is drawn left of To when nothing else decides.
	RelationSpouse RelationType = "spouse"
	// RelationParent links a parent (From) to a child (To).
	RelationParent RelationType = "parent"
)

// Relation is a directed link between two persons.
type Relation struct {
	Type RelationType `json:"type" toml:"type" yaml:"type" bson:"type"`
	From string       `json:"from" toml:"from" yaml:"from" bson:"from"`
	To   string       `json:"to" toml:"to" yaml:"to" bson:"to"`
}

// key identifies a relation regardless of spouse direction.
func (r Relation) key() Relation {
	if r.Type == RelationSpouse && r.To < r.From {
		return Relation{Type: r.Type, From: r.To, To: r.From}
	}
	return r
}

// Tree is a family tree: persons and the relations between them.
type Tree struct {
	ID        string     `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty" bson:"_id,omitempty"`
	Name      string     `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty" bson:"name,omitempty"`
	Persons   []Person   `json:"persons" toml:"persons" yaml:"persons" bson:"persons"`
	Relations []Relation `json:"relations" toml:"relations" yaml:"relations" bson:"relations"`
}

// Person returns the person with the given ID.
func (t *Tree) Person(id string) (Person, bool) {
	for _, p := range t.Persons {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// Index maps person IDs to persons.
func (t *Tree) Index() map[string]Person {
	m := make(map[string]Person, len(t.Persons))
	for _, p := range t.Persons {
		m[p.ID] = p
	}
	return m
}

// Parents returns the IDs of id's recorded parents in relation order.
func (t *Tree) Parents(id string) []string {
	var out []string
	for _, r := range t.Relations {
		if r.Type == RelationParent && r.To == id && !slices.Contains(out, r.From) {
			out = append(out, r.From)
		}
	}
	return out
}

// Children returns the IDs of id's recorded children in relation order.
func (t *Tree) Children(id string) []string {
	var out []string
	for _, r := range t.Relations {
		if r.Type == RelationParent && r.From == id && !slices.Contains(out, r.To) {
			out = append(out, r.To)
		}
	}
	return out
}

// Spouses returns the IDs of id's recorded spouses in relation order.
func (t *Tree) Spouses(id string) []string {
	var out []string
	for _, r := range t.Relations {
		if r.Type != RelationSpouse {
			continue
		}
		var other string
		switch id {
		case r.From:
			other = r.To
		case r.To:
			other = r.From
		default:
			continue
		}
		if !slices.Contains(out, other) {
			out = append(out, other)
		}
	}
	return out
}

// UniqueRelations returns the relations with duplicates removed, keeping the
// first occurrence. Spouse relations are duplicates regardless of direction.
func (t *Tree) UniqueRelations() []Relation {
	seen := make(map[Relation]struct{}, len(t.Relations))
	out := make([]Relation, 0, len(t.Relations))
	for _, r := range t.Relations {
		k := r.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// ClearUnknownDates sets zero birth and death dates to nil, so an empty
// date field reads as absent everywhere and is not written back.
func (t *Tree) ClearUnknownDates() {
	for i := range t.Persons {
		p := &t.Persons[i]
		if p.Birth != nil && p.Birth.IsZero() {
			p.Birth = nil
		}
		if p.Death != nil && p.Death.IsZero() {
			p.Death = nil
		}
	}
}

// Validate checks structural integrity: unique non-empty person IDs, known
// genders and relation types, and relations between distinct existing
// persons. The number of parents per child is not limited; adoptive and
// biological parents may both be recorded.
func (t *Tree) Validate() error {
	if err := errors.ValidateTreeName(t.Name); err != nil {
		return err
	}
	ids := make(map[string]struct{}, len(t.Persons))
	for i, p := range t.Persons {
		if err := errors.ValidateID(p.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTree, err, "person #%d", i+1)
		}
		if _, dup := ids[p.ID]; dup {
			return errors.New(errors.ErrCodeInvalidTree, "duplicate person ID %q", p.ID)
		}
		switch p.Gender {
		case GenderUnknown, GenderMale, GenderFemale, GenderOther:
		default:
			return errors.New(errors.ErrCodeInvalidTree, "person %q: unknown gender %q", p.ID, p.Gender)
		}
		if p.Birth != nil && p.Death != nil && !p.Birth.IsZero() && !p.Death.IsZero() && p.Death.Compare(*p.Birth) < 0 {
			return errors.New(errors.ErrCodeInvalidTree, "person %q: death %s before birth %s", p.ID, p.Death, p.Birth)
		}
		ids[p.ID] = struct{}{}
	}
	for i, r := range t.Relations {
		switch r.Type {
		case RelationSpouse, RelationParent:
		default:
			return errors.New(errors.ErrCodeInvalidTree, "relation #%d: unknown type %q", i+1, r.Type)
		}
		if _, ok := ids[r.From]; !ok {
			return errors.New(errors.ErrCodeInvalidTree, "relation #%d: unknown person %q", i+1, r.From)
		}
		if _, ok := ids[r.To]; !ok {
			return errors.New(errors.ErrCodeInvalidTree, "relation #%d: unknown person %q", i+1, r.To)
		}
		if r.From == r.To {
			return errors.New(errors.ErrCodeInvalidTree, "relation #%d: %q related to themselves", i+1, r.From)
		}
	}
	return nil
}
