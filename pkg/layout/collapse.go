package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/familytree/pkg/dag"
	"github.com/matzehuels/familytree/pkg/family"
)

// Edge metadata keys on the unit graph.
const (
	metaFromOffset = "from_offset" // parent anchor relative to the parent unit centre
	metaToOffset   = "to_offset"   // child anchor relative to the child unit centre
	metaChild      = "child"       // person ID of the blood child
	metaParents    = "parents"     // person IDs of the parents inside the source unit
)

const couplePrefix = "couple:"

// coupleID names a couple unit after its members, adding a numeric suffix
// when a person or earlier couple already holds that ID. Person IDs may
// contain '+' and ':' so the joined form alone is not unique.
func coupleID(members []string, taken map[string]struct{}) string {
	base := couplePrefix + strings.Join(members, "+")
	id := base
	for i := 2; ; i++ {
		if _, exists := taken[id]; !exists {
			taken[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s#%d", base, i)
	}
}

// units is the result of collapsing spouse groups.
type units struct {
	g        *dag.DAG
	unitOf   map[string]string // person ID -> unit ID
	warnings []string
}

// collapse groups spouses into units and connects units by parenthood.
func collapse(t *family.Tree, opts Options) (*units, error) {
	rels := t.UniqueRelations()

	spouses := make(map[string][]string)
	leftOf := make(map[[2]string]bool)
	parentsOf := make(map[string][]string)
	for _, r := range rels {
		switch r.Type {
		case family.RelationSpouse:
			spouses[r.From] = append(spouses[r.From], r.To)
			spouses[r.To] = append(spouses[r.To], r.From)
			leftOf[[2]string{r.From, r.To}] = true
		case family.RelationParent:
			parentsOf[r.To] = append(parentsOf[r.To], r.From)
		}
	}

	u := &units{
		g:      dag.New(dag.Metadata{"tree": t.Name}),
		unitOf: make(map[string]string, len(t.Persons)),
	}

	taken := make(map[string]struct{}, len(t.Persons))
	for _, p := range t.Persons {
		taken[p.ID] = struct{}{}
	}

	for _, p := range t.Persons {
		if _, done := u.unitOf[p.ID]; done {
			continue
		}
		members := arrangeMembers(spouseComponent(p.ID, spouses), spouses)
		if len(members) == 2 && leftOf[[2]string{members[1], members[0]}] {
			members[0], members[1] = members[1], members[0]
		}
		n := dag.Node{
			ID:      members[0],
			Kind:    dag.NodeKindUnit,
			Members: members,
			Width:   opts.unitWidth(len(members)),
		}
		if len(members) > 1 {
			n.ID = coupleID(members, taken)
			n.Kind = dag.NodeKindCouple
		}
		if err := u.g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add unit %s: %w", n.ID, err)
		}
		for _, m := range members {
			u.unitOf[m] = n.ID
		}
	}

	for _, r := range rels {
		if r.Type != family.RelationParent {
			continue
		}
		from, to := u.unitOf[r.From], u.unitOf[r.To]
		if from == to {
			u.warnings = append(u.warnings, fmt.Sprintf(
				"%s is both spouse and parent of %s; parent relation ignored", r.From, r.To))
			continue
		}
		if u.g.HasEdge(from, to) {
			continue
		}
		src, _ := u.g.Node(from)
		dst, _ := u.g.Node(to)

		var present []string
		sum := 0.0
		for _, parent := range parentsOf[r.To] {
			if i := indexOf(src.Members, parent); i >= 0 {
				present = append(present, parent)
				sum += opts.memberOffset(len(src.Members), i)
			}
		}
		if err := u.g.AddEdge(dag.Edge{From: from, To: to, Meta: dag.Metadata{
			metaFromOffset: sum / float64(len(present)),
			metaToOffset:   opts.memberOffset(len(dst.Members), indexOf(dst.Members, r.To)),
			metaChild:      r.To,
			metaParents:    present,
		}}); err != nil {
			return nil, fmt.Errorf("connect %s to %s: %w", from, to, err)
		}
	}
	return u, nil
}

// spouseComponent returns everyone reachable from id over spouse relations,
// in breadth-first order.
func spouseComponent(id string, spouses map[string][]string) []string {
	seen := map[string]bool{id: true}
	queue := []string{id}
	for i := 0; i < len(queue); i++ {
		for _, s := range spouses[queue[i]] {
			if !seen[s] {
				seen[s] = true
				queue = append(queue, s)
			}
		}
	}
	return queue
}

// arrangeMembers orders the persons of one spouse component from left to
// right. Chains of marriages are laid out along the chain so every couple
// sits side by side. Otherwise the most married member is the centre and
// its spouses alternate left and right in relation order.
func arrangeMembers(comp []string, spouses map[string][]string) []string {
	if len(comp) <= 1 {
		return comp
	}
	if path := marriageChain(comp, spouses); path != nil {
		return path
	}

	centre := comp[0]
	for _, id := range comp[1:] {
		if len(spouses[id]) > len(spouses[centre]) {
			centre = id
		}
	}
	placed := map[string]bool{centre: true}
	var left, right []string
	add := func(id string) {
		if placed[id] {
			return
		}
		placed[id] = true
		if len(left) <= len(right) {
			left = append(left, id)
		} else {
			right = append(right, id)
		}
	}
	for _, s := range spouses[centre] {
		add(s)
	}
	for _, id := range comp {
		add(id)
	}

	out := make([]string, 0, len(comp))
	for i := len(left) - 1; i >= 0; i-- {
		out = append(out, left[i])
	}
	out = append(out, centre)
	return append(out, right...)
}

// marriageChain returns the component as a chain when it has no branches,
// starting from the end that appears first. It returns nil otherwise.
func marriageChain(comp []string, spouses map[string][]string) []string {
	edges := 0
	start := ""
	for _, id := range comp {
		d := len(spouses[id])
		if d > 2 {
			return nil
		}
		edges += d
		if d == 1 && start == "" {
			start = id
		}
	}
	if edges/2 != len(comp)-1 || start == "" {
		return nil
	}
	path := []string{start}
	prev := ""
	for cur := start; ; {
		next := ""
		for _, s := range spouses[cur] {
			if s != prev {
				next = s
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		prev, cur = cur, next
	}
	return path
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
