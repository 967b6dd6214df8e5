package parser

import (
	"fmt"

	"github.com/sambeau/frost/pkg/frost/syntax"
)

// EventType identifies the instruction an Event carries.
type EventType uint8

const (
	StartNode   EventType = iota // open a node of Kind
	StartNodeAt                  // open a node of Kind that adopts everything since Checkpoint
	AddToken                     // add a leaf of Kind with Text
	FinishNode                   // close the innermost open node
)

var eventTypeNames = [...]string{
	StartNode:   "StartNode",
	StartNodeAt: "StartNodeAt",
	AddToken:    "AddToken",
	FinishNode:  "FinishNode",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// Event is one instruction of the event log. Which fields are meaningful depends
// on Type: Kind for everything but FinishNode, Checkpoint for StartNodeAt and Text
// for AddToken.
type Event struct {
	Type       EventType
	Kind       syntax.Kind
	Checkpoint int
	Text       string
}

// String renders the event the way it is written in the log dump, e.g.
// StartNodeAt(BinaryExpr, 3) or AddToken(Number, "1").
func (e Event) String() string {
	switch e.Type {
	case StartNode:
		return fmt.Sprintf("StartNode(%s)", e.Kind)
	case StartNodeAt:
		return fmt.Sprintf("StartNodeAt(%s, %d)", e.Kind, e.Checkpoint)
	case AddToken:
		return fmt.Sprintf("AddToken(%s, %q)", e.Kind, e.Text)
	default:
		return e.Type.String()
	}
}
