package contract

import (
	"context"
	"reflect"
)

// Worker is anything the supervisor can run: the TCP server, the resource
// monitor. A worker does not protect itself; supervision handles panics and
// restarts.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName derives a log-friendly name from the worker's concrete type,
// so workers don't carry a naming method just for supervision output.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
