package markup

// Source produces events one at a time. Both the scalar Scanner and the SIMD
// fast path implement it with the same event contract.
type Source interface {
	// Next returns the next event. EndOfInput and errors are terminal: once either
	// has been returned, every later call returns it again.
	Next() (Event, error)

	// Offset returns the current byte offset into the input.
	Offset() int
}

// Walk drives src until EndOfInput, calling fn for every event before it. A non-nil
// error from fn stops the walk and is returned unchanged.
func Walk(src Source, fn func(Event) error) error {
	for {
		ev, err := src.Next()
		if err != nil {
			return err
		}
		if ev.Kind == EndOfInput {
			return nil
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}

// Collect returns every event produced by src before EndOfInput. On a scanning
// error the events produced so far are returned together with the error.
func Collect(src Source) ([]Event, error) {
	var events []Event
	err := Walk(src, func(ev Event) error {
		events = append(events, ev)
		return nil
	})
	return events, err
}
