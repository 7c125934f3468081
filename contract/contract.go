//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
)

// ISupervisor owns the lifetime of the process workers.
type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker runs until ctx is done. Returning nil means it is finished and must
// not be restarted; an error asks the supervisor for another run.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName returns the type name of w, used as the worker name in logs.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "nil"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
