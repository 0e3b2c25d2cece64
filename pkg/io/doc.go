// Package io reads and writes family tree and layout files.
//
// # Tree files
//
// Trees are stored as JSON, TOML or YAML with one shared schema:
//
//	name: Smith
//	persons:
//	  - id: ann
//	    name: Ann Smith
//	    gender: female
//	    birth: "1921-04-02"
//	    death: 1999
//	  - id: carl
//	    birth: 1950-03
//	relations:
//	  - {type: spouse, from: ann, to: bob}
//	  - {type: parent, from: ann, to: carl}
//
// Dates may be a year, year-month or full date. [ImportTree] and
// [ExportTree] choose the format from the file extension (.json, .toml,
// .yaml/.yml); [ReadTree] and [WriteTree] take it explicitly. Unknown fields
// are rejected so typos do not silently drop data. Every tree read is
// validated.
//
// # GEDCOM
//
// [ReadGEDCOM] imports the individuals and families of a GEDCOM 5.5 file
// (.ged), the interchange format of most genealogy software. Only what the
// layout needs is kept: names, sex, birth and death dates, notes, marriages
// and children.
//
// # Layout files
//
// [MarshalLayout], [UnmarshalLayout], [WriteLayoutFile] and
// [ReadLayoutFile] store a computed [layout.Layout] as JSON so it can be
// rendered later or by external tools.
//
// [layout.Layout]: github.com/matzehuels/familytree/pkg/layout.Layout
package io
