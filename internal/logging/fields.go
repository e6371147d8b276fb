package logging

import (
	"strconv"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// With applies fields to e in order.
func With(e *bolt.Event, fields ...Field) *bolt.Event {
	for _, f := range fields {
		e = f(e)
	}
	return e
}

// ChartKind adds the chart type.
func ChartKind(kind string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("chart", kind)
	}
}

// Size adds canvas dimensions in pixels.
func Size(width, height int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("width", width).Int("height", height)
	}
}

// Index adds a data element index.
func Index(i int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("index", i)
	}
}

// Value adds a data value.
func Value(v float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("value", strconv.FormatFloat(v, 'g', -1, 64))
	}
}

// Path adds a file path.
func Path(p string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", p)
	}
}

// ErrorField adds an error.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Err(err)
	}
}
