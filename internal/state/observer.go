package state

// Field names a piece of engine state that changed.
type Field string

const (
	FieldBoard         Field = "board"
	FieldCurrentPlayer Field = "currentPlayer"
	FieldResult        Field = "result"
)

// Change carries the new value of a field: a board.Board for FieldBoard, a
// board.Player for FieldCurrentPlayer and a Result for FieldResult.
type Change struct {
	Field Field
	Value any
}

// Observer is notified synchronously, on the goroutine applying the change.
// Observers must not call back into the engine.
type Observer interface {
	OnChange(Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Change)

func (f ObserverFunc) OnChange(c Change) { f(c) }

func (s *State) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *State) notify(field Field, value any) {
	c := Change{Field: field, Value: value}
	for _, o := range s.observers {
		o.OnChange(c)
	}
}
