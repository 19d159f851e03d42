// Package casefile tracks lightweight incident records: a named file with a
// resolution flag and an ordered list of evidence items, persisted in an
// embedded sqlite table.
package casefile

import (
	"fmt"
	"strconv"
	"strings"
)

// CaseFile is a transient projection of one stored record. The store owns
// the durable copy; mutate a CaseFile and write it back.
type CaseFile struct {
	ID       uint64
	Name     string
	Resolved bool
	Items    []string
}

// Resolution returns the flag as display text.
func (c *CaseFile) Resolution() string {
	if c.Resolved {
		return "resolved"
	}
	return "unresolved"
}

// PushItem appends an item to the file.
func (c *CaseFile) PushItem(item string) {
	c.Items = append(c.Items, item)
}

// Verb identifies a casefile operation.
type Verb int

const (
	VerbCreate Verb = iota
	VerbRead
	VerbAddItem
	VerbRemoveItem
	VerbDelete
	VerbViewAll
)

// Action is one parsed casefile operation. ID is meaningful for every verb
// except Create and ViewAll. Index is the item to remove for VerbRemoveItem;
// -1 means the last item.
type Action struct {
	Verb  Verb
	ID    uint64
	Name  string
	Item  string
	Index int
}

// ParseError reports malformed casefile action text.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return e.Reason }

// ParseAction parses the tokens following the casefile command word, e.g.
// ["create", "stolen", "flag"] or ["add", "3", "saw", "it", "happen"].
func ParseAction(args []string) (Action, error) {
	if len(args) == 0 {
		return Action{}, &ParseError{Reason: "No valid action to take!"}
	}
	switch strings.ToLower(args[0]) {
	case "create":
		if len(args) < 2 {
			return Action{}, &ParseError{Reason: "no name for the new casefile"}
		}
		return Action{Verb: VerbCreate, Name: strings.Join(args[1:], " ")}, nil
	case "read":
		id, err := parseID(args, "no given id to read from")
		if err != nil {
			return Action{}, err
		}
		return Action{Verb: VerbRead, ID: id}, nil
	case "add":
		id, err := parseID(args, "no given id to add to")
		if err != nil {
			return Action{}, err
		}
		if len(args) < 3 {
			return Action{}, &ParseError{Reason: "no item to add"}
		}
		return Action{Verb: VerbAddItem, ID: id, Item: strings.Join(args[2:], " ")}, nil
	case "remove":
		id, err := parseID(args, "no given id to remove from")
		if err != nil {
			return Action{}, err
		}
		act := Action{Verb: VerbRemoveItem, ID: id, Index: -1}
		if len(args) >= 3 {
			idx, err := strconv.Atoi(args[2])
			if err != nil || idx < 0 {
				return Action{}, &ParseError{Reason: fmt.Sprintf("%q is not a valid item index", args[2])}
			}
			act.Index = idx
		}
		return act, nil
	case "delete":
		id, err := parseID(args, "no given id to delete")
		if err != nil {
			return Action{}, err
		}
		return Action{Verb: VerbDelete, ID: id}, nil
	case "view":
		return Action{Verb: VerbViewAll}, nil
	}
	return Action{}, &ParseError{Reason: fmt.Sprintf("%q is not a casefile action", args[0])}
}

func parseID(args []string, missing string) (uint64, error) {
	if len(args) < 2 {
		return 0, &ParseError{Reason: missing}
	}
	id, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return 0, &ParseError{Reason: fmt.Sprintf("%q is not a valid casefile id", args[1])}
	}
	return id, nil
}
