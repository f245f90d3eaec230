package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/myLogic207/godeque/buffer"
	"github.com/myLogic207/godeque/config"
	"github.com/myLogic207/godeque/workers"
)

var (
	ErrNotInit     = errors.New("system not initialized")
	testInitConfig = map[string]interface{}{
		"TIMEOUT": "1s",
		"LOGGER": map[string]interface{}{
			"PREFIX": "LIFECYCLE-TEST",
			"LEVEL":  "WARN",
			"WRITERS": map[string]interface{}{
				"STDOUT": true,
				"FILE": map[string]interface{}{
					"ACTIVE": false,
				},
			},
		},
	}
	testSystemConfig = map[string]interface{}{
		"TESTKEY": "TESTVAL",
	}
)

type TestSystem struct {
	mu          sync.Mutex
	initialized bool
	val         string
	delay       time.Duration
	initErr     error
}

func (t *TestSystem) Init(ctx context.Context, cfg *config.Config) error {
	<-time.After(t.delay)
	if t.initErr != nil {
		return t.initErr
	}
	testVal, err := cfg.Get(ctx, "TESTKEY")
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.val = testVal
	t.initialized = true
	return nil
}

func (t *TestSystem) Shutdown() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.initialized = false
	return nil
}

func (t *TestSystem) TestVal() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized {
		return "", ErrNotInit
	}
	return t.val, nil
}

func mustConfig(t *testing.T, values map[string]interface{}) *config.Config {
	t.Helper()
	cfg, err := config.WithInitialValues(context.Background(), values)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func newTestInitializer(t *testing.T, timeout string) *Initializer {
	t.Helper()
	cfg := mustConfig(t, testInitConfig)
	if timeout != "" {
		if err := cfg.Set(context.Background(), "TIMEOUT", timeout, true); err != nil {
			t.Fatal(err)
		}
	}
	initSystem, err := NewInitializer(context.Background(), cfg)
	if err != nil {
		t.Log(err)
		t.Error("Initializer is not creating correctly")
		t.FailNow()
	}
	return initSystem
}

func TestSystemSelfTest(t *testing.T) {
	system := &TestSystem{}
	if err := system.Init(context.Background(), mustConfig(t, testSystemConfig)); err != nil {
		t.Log(err)
		t.Error("Test system is not initializing correctly")
		t.FailNow()
	}
	if val, err := system.TestVal(); err != nil || val != testSystemConfig["TESTKEY"] {
		t.Log(err)
		t.Error("Test system is not responding correctly")
		t.FailNow()
	}
	if err := system.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if _, err := system.TestVal(); !errors.Is(err, ErrNotInit) {
		t.Error("Test system is initialized after shutdown")
	}
}

func TestSimpleLifecycle(t *testing.T) {
	ctx := context.Background()
	initSystem := newTestInitializer(t, "")
	testSystem := &TestSystem{}
	if err := initSystem.AddSystem(ctx, "TEST", testSystem, mustConfig(t, testSystemConfig)); err != nil {
		t.Log(err)
		t.Error("Initializer is not adding systems correctly")
		t.FailNow()
	}

	if _, err := testSystem.TestVal(); !errors.Is(err, ErrNotInit) {
		t.Error("Test system is initialized before initializer is initialized")
		t.FailNow()
	}
	if err := initSystem.Init(ctx, nil); err != nil {
		t.Log(err)
		t.Error("Initializer is not initializing correctly")
		t.FailNow()
	}
	if err := initSystem.Init(ctx, nil); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected already initialized, got %v", err)
	}

	if val, err := testSystem.TestVal(); err != nil || val != testSystemConfig["TESTKEY"] {
		t.Log(err)
		t.Error("Test system is not responding correctly")
		t.FailNow()
	}

	if err := initSystem.Shutdown(); err != nil {
		t.Log(err)
		t.Error("Initializer is not shutting down correctly")
		t.FailNow()
	}
	if _, err := testSystem.TestVal(); !errors.Is(err, ErrNotInit) {
		t.Error("Test system is initialized after initializer is shutdown")
	}
}

func TestRegistrationErrors(t *testing.T) {
	ctx := context.Background()
	initSystem := newTestInitializer(t, "")
	if err := initSystem.Init(ctx, nil); !errors.Is(err, ErrNothingToInit) {
		t.Errorf("expected nothing to init, got %v", err)
	}
	if err := initSystem.AddSystem(ctx, "TEST", nil, nil); !errors.Is(err, ErrInvalidSystem) {
		t.Errorf("expected invalid system, got %v", err)
	}
	if err := initSystem.AddSystem(ctx, "bad name", &TestSystem{}, nil); !errors.Is(err, ErrInitConfig) {
		t.Errorf("expected invalid name, got %v", err)
	}
	if err := initSystem.AddSystem(ctx, "TEST", &TestSystem{}, mustConfig(t, testSystemConfig)); err != nil {
		t.Fatal(err)
	}
	if err := initSystem.AddSystem(ctx, "TEST", &TestSystem{}, nil); !errors.Is(err, ErrSystemRegistered) {
		t.Errorf("expected registered system, got %v", err)
	}
	if len(initSystem.GetSubSystems()) != 1 {
		t.Error("expected one registered system")
	}
	if err := initSystem.RemoveSystem(ctx, "TEST"); err != nil {
		t.Fatal(err)
	}
	if err := initSystem.RemoveSystem(ctx, "TEST"); !errors.Is(err, ErrNoSystem) {
		t.Errorf("expected missing system, got %v", err)
	}
	if err := initSystem.Init(ctx, nil); !errors.Is(err, ErrNothingToInit) {
		t.Errorf("expected nothing to init after removal, got %v", err)
	}
}

func TestInitTimeout(t *testing.T) {
	ctx := context.Background()
	initSystem := newTestInitializer(t, "50ms")
	slow := &TestSystem{delay: 500 * time.Millisecond}
	if err := initSystem.AddSystem(ctx, "SLOW", slow, mustConfig(t, testSystemConfig)); err != nil {
		t.Fatal(err)
	}
	if err := initSystem.Init(ctx, nil); !errors.Is(err, ErrTimeout) {
		t.Errorf("expected timeout, got %v", err)
	}
}

func TestInitFailure(t *testing.T) {
	ctx := context.Background()
	initSystem := newTestInitializer(t, "")
	errBroken := errors.New("broken system")
	if err := initSystem.AddSystem(ctx, "GOOD", &TestSystem{}, mustConfig(t, testSystemConfig)); err != nil {
		t.Fatal(err)
	}
	if err := initSystem.AddSystem(ctx, "BROKEN", &TestSystem{initErr: errBroken}, nil); err != nil {
		t.Fatal(err)
	}
	err := initSystem.Init(ctx, nil)
	if !errors.Is(err, ErrInitSystem) || !errors.Is(err, errBroken) {
		t.Errorf("expected joined system error, got %v", err)
	}
	var systemErr *SystemError
	if !errors.As(err, &systemErr) || systemErr.name != "BROKEN" {
		t.Errorf("expected error naming the system, got %v", err)
	}
	if err := initSystem.Shutdown(); err != nil {
		t.Errorf("shutting down the initialized systems failed: %v", err)
	}
}

func TestBufferAndPoolLifecycle(t *testing.T) {
	ctx := context.Background()
	t.Setenv("LIFECYCLETEST_SYSTEMCONFIGS_JOBS_SIZE", "64")
	t.Setenv("LIFECYCLETEST_SYSTEMCONFIGS_POOL_WORKERS", "3")

	initSystem := newTestInitializer(t, "")
	jobs := &buffer.Buffer[string]{}
	pool := &workers.WorkerPool{}
	quiet := map[string]interface{}{"LEVEL": "WARN"}
	if err := initSystem.AddSystem(ctx, "JOBS", jobs, mustConfig(t, map[string]interface{}{
		"MODE":   "STACK",
		"SIZE":   8,
		"LOGGER": quiet,
	})); err != nil {
		t.Fatal(err)
	}
	if err := initSystem.AddSystem(ctx, "POOL", pool, mustConfig(t, map[string]interface{}{
		"WORKERS": 1,
		"LOGGER":  quiet,
	})); err != nil {
		t.Fatal(err)
	}
	if err := initSystem.Init(ctx, []string{"LIFECYCLETEST"}); err != nil {
		t.Fatal(err)
	}

	if capacity := jobs.Capacity(); capacity != 64 {
		t.Errorf("expected environment to set the buffer size, got %d", capacity)
	}
	if jobs.Mode() != buffer.MODE_STACK {
		t.Errorf("expected stack mode, got %s", jobs.Mode())
	}
	if pool.Workers() != 3 {
		t.Errorf("expected environment to set the workers, got %d", pool.Workers())
	}

	for _, job := range []string{"first", "second"} {
		if err := jobs.Add(job); err != nil {
			t.Fatal(err)
		}
	}
	done := make(chan string, 2)
	for jobs.Len() > 0 {
		job, err := jobs.Get()
		if err != nil {
			t.Fatal(err)
		}
		if err := pool.Add(workers.NewTask(func(ctx context.Context) error {
			done <- job
			return nil
		}, nil)); err != nil {
			t.Fatal(err)
		}
	}

	if err := initSystem.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if len(done) != 2 {
		t.Errorf("expected both jobs to run before shutdown returned, got %d", len(done))
	}
	if err := jobs.Add("late"); !errors.Is(err, buffer.ErrAddElement) {
		t.Errorf("expected buffer shut down, got %v", err)
	}
	if err := pool.Add(workers.NewTask(func(ctx context.Context) error { return nil }, nil)); !errors.Is(err, workers.ErrPoolClosed) {
		t.Errorf("expected pool closed, got %v", err)
	}
}

func TestCatchInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	CatchInterrupt(cancel)
	select {
	case <-ctx.Done():
		t.Fatal("context cancelled without a signal")
	default:
	}
}
