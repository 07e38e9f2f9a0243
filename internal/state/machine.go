// SPDX-License-Identifier: Apache-2.0

package state

// Actor distinguishes which side of the protocol drives a transition: the
// migrator (M) or the recall daemon (D).
type Actor int

const (
	ActorMigrate Actor = iota
	ActorDaemon
)

func (a Actor) String() string {
	if a == ActorDaemon {
		return "D"
	}
	return "M"
}

type transition struct {
	from  State
	to    State
	actor Actor
}

// allowed lists every transition the protocol permits. START->START (the
// restart-continuation case) and RECALL->RECALL (a daemon restart
// re-entering the idempotent recall handler mid-recall) are
// intentionally self-loops: Allowed reports them as legal so a caller can
// distinguish "no-op" from "disallowed".
var allowed = []transition{
	{StateResident, StateStart, ActorMigrate},
	{StateStart, StateMigrated, ActorMigrate},
	{StateStart, StateStart, ActorMigrate},
	{StateMigrated, StateRecall, ActorDaemon},
	{StateRecall, StateRecall, ActorDaemon},
	{StateRecall, StateResident, ActorDaemon},
	{StateMigrated, StateResident, ActorDaemon},
	{StateStart, StateResident, ActorDaemon},
}

// Allowed reports whether actor may drive from->to. DESTROY is modeled as
// "any state with an attribute" -> RESIDENT by ActorDaemon, which the table
// above covers for START, MIGRATED and RECALL individually.
func Allowed(from, to State, actor Actor) bool {
	for _, t := range allowed {
		if t.from == from && t.to == to && t.actor == actor {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrProtocol if actor may not move a file from
// state from to state to. Callers use this immediately before committing an
// attribute write, while still holding the right that makes the transition
// atomic, so that disallowed transitions surface as a protocol error rather
// than silently corrupting the attribute.
func CheckTransition(from, to State, actor Actor) error {
	if !Allowed(from, to, actor) {
		return ErrProtocol.New("illegal transition %s -> %s by %s", from, to, actor)
	}
	return nil
}
