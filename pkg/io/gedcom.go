package io

import (
	"bufio"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// gedLine is one line of a GEDCOM file: "level [@xref@] TAG [value]".
type gedLine struct {
	level int
	xref  string
	tag   string
	value string
}

type gedFamily struct {
	husband, wife string
	children      []string
}

// ReadGEDCOM imports individuals and families from a GEDCOM 5.5 file.
//
// INDI records become persons (NAME, SEX, BIRT/DEAT DATE and NOTE are read),
// FAM records become a spouse relation between HUSB and WIFE plus a parent
// relation from each of them to every CHIL. Person IDs are the record
// cross-references without the @ signs. Everything else is skipped, as are
// references to individuals the file does not contain.
func ReadGEDCOM(r io.Reader) (*family.Tree, error) {
	var (
		t        family.Tree
		families []gedFamily
		person   *family.Person
		fam      *gedFamily
		event    string // level-1 tag the following level-2 lines belong to
		inHead   bool
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		raw := strings.TrimRight(sc.Text(), "\r")
		if n == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		l, err := parseGEDLine(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "gedcom line %d", n)
		}

		switch l.level {
		case 0:
			person, fam, event, inHead = nil, nil, "", l.tag == "HEAD"
			switch l.tag {
			case "INDI":
				t.Persons = append(t.Persons, family.Person{ID: l.xref})
				person = &t.Persons[len(t.Persons)-1]
			case "FAM":
				families = append(families, gedFamily{})
				fam = &families[len(families)-1]
			}
		case 1:
			event = l.tag
			switch {
			case inHead && l.tag == "FILE":
				t.Name = strings.TrimSuffix(filepath.Base(l.value), filepath.Ext(l.value))
			case person != nil:
				readIndividual(person, l)
			case fam != nil:
				readFamily(fam, l)
			}
		default:
			if person == nil || l.level != 2 {
				continue
			}
			switch {
			case l.tag == "DATE" && (event == "BIRT" || event == "DEAT"):
				if d, ok := parseGEDDate(l.value); ok {
					if event == "BIRT" {
						person.Birth = &d
					} else {
						person.Death = &d
					}
				}
			case event == "NOTE" && l.tag == "CONT":
				person.Note += "\n" + l.value
			case event == "NOTE" && l.tag == "CONC":
				person.Note += l.value
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read gedcom")
	}

	known := make(map[string]bool, len(t.Persons))
	for _, p := range t.Persons {
		known[p.ID] = true
	}
	for _, f := range families {
		var parents []string
		for _, p := range []string{f.husband, f.wife} {
			if known[p] {
				parents = append(parents, p)
			}
		}
		if len(parents) == 2 {
			t.Relations = append(t.Relations, family.Relation{Type: family.RelationSpouse, From: parents[0], To: parents[1]})
		}
		for _, c := range f.children {
			if !known[c] {
				continue
			}
			for _, p := range parents {
				t.Relations = append(t.Relations, family.Relation{Type: family.RelationParent, From: p, To: c})
			}
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func readIndividual(p *family.Person, l gedLine) {
	switch l.tag {
	case "NAME":
		if p.Name == "" {
			p.Name = strings.Join(strings.Fields(strings.ReplaceAll(l.value, "/", " ")), " ")
		}
	case "SEX":
		switch strings.ToUpper(l.value) {
		case "M":
			p.Gender = family.GenderMale
		case "F":
			p.Gender = family.GenderFemale
		case "X":
			p.Gender = family.GenderOther
		}
	case "NOTE":
		if !strings.HasPrefix(l.value, "@") {
			p.Note = l.value
		}
	}
}

func readFamily(f *gedFamily, l gedLine) {
	ref := strings.Trim(l.value, "@")
	switch l.tag {
	case "HUSB":
		f.husband = ref
	case "WIFE":
		f.wife = ref
	case "CHIL":
		f.children = append(f.children, ref)
	}
}

func parseGEDLine(s string) (gedLine, error) {
	fields := strings.SplitN(strings.TrimSpace(s), " ", 2)
	level, err := strconv.Atoi(fields[0])
	if err != nil || level < 0 {
		return gedLine{}, errors.New(errors.ErrCodeInvalidInput, "invalid level %q", fields[0])
	}
	if len(fields) < 2 {
		return gedLine{}, errors.New(errors.ErrCodeInvalidInput, "missing tag")
	}
	l := gedLine{level: level}
	rest := fields[1]
	if strings.HasPrefix(rest, "@") {
		xref, after, _ := strings.Cut(rest, " ")
		l.xref = strings.Trim(xref, "@")
		rest = after
	}
	l.tag, l.value, _ = strings.Cut(rest, " ")
	l.tag = strings.ToUpper(l.tag)
	return l, nil
}

var gedMonths = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// parseGEDDate reads the first date of a GEDCOM date value such as
// "12 MAR 1950", "ABT 1950" or "BET 1900 AND 1905". Qualifiers are dropped.
func parseGEDDate(s string) (family.Date, bool) {
	var d family.Date
	var day int
	for _, tok := range strings.Fields(strings.ToUpper(s)) {
		if m, ok := gedMonths[tok]; ok {
			d.Month = m
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		if n > 31 || len(tok) >= 3 {
			d.Year = n
			break
		}
		day = n
	}
	if d.Year == 0 {
		return family.Date{}, false
	}
	if d.Month != 0 {
		d.Day = day
	}
	return d, true
}
