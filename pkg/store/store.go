// Package store persists family trees with role based sharing.
//
// Every tree has exactly one owner and any number of editors and viewers.
// Callers are identified by an opaque user ID; the store enforces roles:
//
//   - viewers may read the tree and its layout
//   - editors may also replace persons and relations
//   - the owner may also share, unshare and delete
//
// A caller without any role gets TREE_NOT_FOUND rather than FORBIDDEN, so
// tree IDs do not leak. Three backends implement [Store]:
//
//   - [MemoryStore] for tests and single-process servers
//   - [FileStore] for the CLI, one JSON file per tree
//   - [MongoStore] for shared deployments
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// Store persists trees and their members.
type Store interface {
	// CreateTree stores t owned by owner. An empty t.ID is replaced by a
	// fresh UUID; an ID already in use fails with CONFLICT.
	CreateTree(ctx context.Context, owner string, t *family.Tree) (*Record, error)
	GetTree(ctx context.Context, user, id string) (*Record, error)
	// PutTree replaces the persons and relations of an existing tree.
	PutTree(ctx context.Context, user string, t *family.Tree) (*Record, error)
	DeleteTree(ctx context.Context, user, id string) error
	// ListTrees returns every tree user has a role on, most recently
	// updated first.
	ListTrees(ctx context.Context, user string) ([]Summary, error)

	// Share grants or changes a member's role. Ownership cannot be granted.
	Share(ctx context.Context, user, id string, m family.Member) error
	// Unshare removes a member. The owner cannot be removed.
	Unshare(ctx context.Context, user, id, member string) error
	Members(ctx context.Context, user, id string) ([]family.Member, error)

	Close() error
}

// Record is a stored tree with its access list.
type Record struct {
	Tree      family.Tree     `json:"tree" bson:"tree"`
	Owner     string          `json:"owner" bson:"owner"`
	Members   []family.Member `json:"members" bson:"members"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
	// Version starts at 1 and grows by one with every change.
	Version int64 `json:"version" bson:"version"`
}

// Role returns user's role on the record, or "".
func (r *Record) Role(user string) family.Role {
	return family.RoleOf(r.Members, user)
}

// Summary is the list view of a tree.
type Summary struct {
	ID        string      `json:"id"`
	Name      string      `json:"name,omitempty"`
	Role      family.Role `json:"role"`
	Persons   int         `json:"persons"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (r *Record) summary(user string) Summary {
	return Summary{
		ID:        r.Tree.ID,
		Name:      r.Tree.Name,
		Role:      r.Role(user),
		Persons:   len(r.Tree.Persons),
		UpdatedAt: r.UpdatedAt,
	}
}

// newRecord validates t and builds the record of a new tree.
func newRecord(owner string, t *family.Tree, now time.Time) (*Record, error) {
	if err := errors.ValidateUserID(owner); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree is required")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	tree := cloneTree(t)
	if tree.ID == "" {
		tree.ID = uuid.NewString()
	} else if err := errors.ValidateID(tree.ID); err != nil {
		return nil, err
	}
	return &Record{
		Tree:      tree,
		Owner:     owner,
		Members:   []family.Member{{UserID: owner, Role: family.RoleOwner}},
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}, nil
}

// authorize checks that user holds a role on r that passes allowed.
func authorize(r *Record, user string, allowed func(family.Role) bool, action string) error {
	role := r.Role(user)
	if !role.CanView() {
		return errors.New(errors.ErrCodeTreeNotFound, "tree %q not found", r.Tree.ID)
	}
	if !allowed(role) {
		return errors.New(errors.ErrCodeForbidden, "%s may not %s tree %q", role, action, r.Tree.ID)
	}
	return nil
}

func canView(r family.Role) bool   { return r.CanView() }
func canEdit(r family.Role) bool   { return r.CanEdit() }
func canManage(r family.Role) bool { return r.CanManage() }

// replaceTree applies PutTree to r after checking access.
func replaceTree(r *Record, user string, t *family.Tree, now time.Time) error {
	if err := authorize(r, user, canEdit, "edit"); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	r.Tree = cloneTree(t)
	r.UpdatedAt = now
	return nil
}

// share applies Share to r after checking access.
func share(r *Record, user string, m family.Member, now time.Time) error {
	if err := authorize(r, user, canManage, "share"); err != nil {
		return err
	}
	if err := errors.ValidateUserID(m.UserID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "member")
	}
	if !m.Role.Valid() {
		return errors.New(errors.ErrCodeInvalidRole, "unknown role %q", m.Role)
	}
	if m.Role == family.RoleOwner || m.UserID == r.Owner {
		return errors.New(errors.ErrCodeForbidden, "ownership of tree %q cannot change", r.Tree.ID)
	}
	i := slices.IndexFunc(r.Members, func(x family.Member) bool { return x.UserID == m.UserID })
	if i >= 0 {
		r.Members[i].Role = m.Role
	} else {
		r.Members = append(r.Members, m)
	}
	r.UpdatedAt = now
	return nil
}

// unshare applies Unshare to r after checking access.
func unshare(r *Record, user, member string, now time.Time) error {
	if err := authorize(r, user, canManage, "unshare"); err != nil {
		return err
	}
	if member == r.Owner {
		return errors.New(errors.ErrCodeForbidden, "the owner of tree %q cannot be removed", r.Tree.ID)
	}
	n := len(r.Members)
	r.Members = slices.DeleteFunc(r.Members, func(x family.Member) bool { return x.UserID == member })
	if len(r.Members) == n {
		return errors.New(errors.ErrCodeNotFound, "%q is not a member of tree %q", member, r.Tree.ID)
	}
	r.UpdatedAt = now
	return nil
}

func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func cloneTree(t *family.Tree) family.Tree {
	c := *t
	c.Persons = slices.Clone(t.Persons)
	c.Relations = slices.Clone(t.Relations)
	for i, p := range c.Persons {
		if p.Birth != nil {
			b := *p.Birth
			c.Persons[i].Birth = &b
		}
		if p.Death != nil {
			d := *p.Death
			c.Persons[i].Death = &d
		}
	}
	return c
}

func cloneRecord(r *Record) *Record {
	c := *r
	c.Tree = cloneTree(&r.Tree)
	c.Members = slices.Clone(r.Members)
	return &c
}

func errConcurrentUpdate(id string) error {
	return errors.New(errors.ErrCodeConflict, "tree %q changed concurrently, retry", id)
}

// idTaken is returned by CreateTree for any existing ID, whoever owns it.
func idTaken(id string) error {
	return errors.New(errors.ErrCodeConflict, "tree ID %q is not available", id)
}

func treeNotFound(id string) error {
	return errors.New(errors.ErrCodeTreeNotFound, "tree %q not found", id)
}
