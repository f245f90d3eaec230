package workers

import "context"

// Task is run by a single worker. OnFinish receives the error returned by Do.
type Task interface {
	Do(context.Context) error
	OnFinish(context.Context, error)
}

type TaskImpl struct {
	function func(context.Context) error
	callback func(context.Context, error)
}

// NewTask wraps function, callback may be nil
func NewTask(function func(context.Context) error, callback func(context.Context, error)) *TaskImpl {
	return &TaskImpl{
		function: function,
		callback: callback,
	}
}

func (t *TaskImpl) Do(ctx context.Context) error {
	return t.function(ctx)
}

func (t *TaskImpl) OnFinish(ctx context.Context, err error) {
	if t.callback != nil {
		t.callback(ctx, err)
	}
}

type TaskWithParam struct {
	function func(context.Context, ...interface{}) error
	callback func(context.Context, error, ...interface{})
	params   []interface{}
}

func NewTaskWithParams(
	function func(context.Context, ...interface{}) error,
	callback func(context.Context, error, ...interface{}),
	params ...interface{}) *TaskWithParam {
	return &TaskWithParam{
		params:   params,
		function: function,
		callback: callback,
	}
}

func (t *TaskWithParam) Do(ctx context.Context) error {
	return t.function(ctx, t.params...)
}

func (t *TaskWithParam) OnFinish(ctx context.Context, err error) {
	if t.callback != nil {
		t.callback(ctx, err, t.params...)
	}
}
