// Package lifecycle starts and stops named subsystems under a common timeout.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/myLogic207/godeque/config"
	"github.com/myLogic207/godeque/logger"
)

const (
	KEY_SYSTEMS = "SYSTEMCONFIGS"
)

var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNoSystem           = errors.New("system not found")
	ErrSystemRegistered   = errors.New("system already registered")
	ErrNothingToInit      = errors.New("nothing to init")
	ErrInitConfig         = errors.New("error initializing, config issue")
	ErrInitSystem         = errors.New("error initializing system")
	ErrTimeout            = errors.New("operation timed out")
)

var defaultConfig = map[string]interface{}{
	"LOGGER": map[string]interface{}{
		"PREFIX": "INITIALIZER",
		"WRITERS": map[string]interface{}{
			"STDOUT": true,
		},
	},
	"TIMEOUT": "5s",
}

// CatchInterrupt cancels on SIGINT or SIGTERM
func CatchInterrupt(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		signal.Stop(c)
		cancel()
	}()
}

// Initializer keeps a config subtree per system below SYSTEMCONFIGS. Init merges
// the environment over it and starts every system in parallel.
type Initializer struct {
	mu          sync.Mutex
	initialized bool
	logger      logger.Logger
	systems     map[string]*systemWrapper
	configTree  *config.Config
	timeout     time.Duration
}

func NewInitializer(ctx context.Context, options *config.Config) (*Initializer, error) {
	cfg, err := config.WithInitialValuesAndOptions(ctx, defaultConfig, options)
	if err != nil {
		return nil, errors.Join(ErrInitConfig, err)
	}
	timeout, err := cfg.GetDuration(ctx, "TIMEOUT")
	if err != nil {
		return nil, errors.Join(ErrInitConfig, err)
	}
	loggerConfig, err := cfg.GetConfig(ctx, "LOGGER")
	if err != nil {
		return nil, errors.Join(ErrInitConfig, err)
	}
	log, err := logger.Init(ctx, loggerConfig)
	if err != nil {
		return nil, errors.Join(ErrInitConfig, err)
	}

	return &Initializer{
		logger:     log,
		systems:    make(map[string]*systemWrapper),
		configTree: cfg,
		timeout:    timeout,
	}, nil
}

// AddSystem registers system under name, configOptions may be nil
func (i *Initializer) AddSystem(ctx context.Context, name string, system SubSystem, configOptions *config.Config) error {
	if system == nil {
		return ErrInvalidSystem
	}
	if err := config.IsValidKey(name); err != nil {
		return errors.Join(ErrInitConfig, err)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.systems[name]; ok {
		return ErrSystemRegistered
	}
	systemKey := KEY_SYSTEMS + config.CONFIG_TREE_SEPARATOR + name
	if configOptions != nil {
		if err := i.configTree.Set(ctx, systemKey, configOptions, true); err != nil {
			return errors.Join(ErrInitConfig, err)
		}
	}
	i.systems[name] = newSystemWrapper(name, system)
	i.logger.Debug(ctx, "system added", "system", name)
	return nil
}

// GetSubSystems returns the registered systems by name
func (i *Initializer) GetSubSystems() map[string]SubSystem {
	i.mu.Lock()
	defer i.mu.Unlock()
	subSystems := make(map[string]SubSystem, len(i.systems))
	for name, wrapper := range i.systems {
		subSystems[name] = wrapper.SubSystem
	}
	return subSystems
}

// RemoveSystem forgets a system without shutting it down
func (i *Initializer) RemoveSystem(ctx context.Context, name string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.systems[name]; !ok {
		return ErrNoSystem
	}
	delete(i.systems, name)
	if err := i.configTree.Delete(ctx, KEY_SYSTEMS+config.CONFIG_TREE_SEPARATOR+name); err != nil {
		return err
	}
	i.logger.Info(ctx, "system removed", "system", name)
	return nil
}

// Init merges variables below envPrefixes into the config tree and initializes every system
func (i *Initializer) Init(ctx context.Context, envPrefixes []string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if len(i.systems) == 0 {
		return ErrNothingToInit
	}
	if i.initialized {
		return ErrAlreadyInitialized
	}

	loadedOptions, err := config.LoadConfig(ctx, envPrefixes, nil)
	if errors.Is(err, config.ErrNoConfigSource) {
		i.logger.Debug(ctx, "no config source given, using registered configs")
	} else if err != nil {
		return errors.Join(ErrInitConfig, err)
	} else if err := i.configTree.Merge(ctx, loadedOptions, true); err != nil {
		return errors.Join(ErrInitConfig, err)
	}

	jobs := make(map[string]func() error, len(i.systems))
	for name, wrapper := range i.systems {
		systemConfig, err := i.systemConfig(ctx, name)
		if err != nil {
			return errors.Join(ErrInitConfig, err)
		}
		jobs[name] = func() error {
			return wrapper.init(ctx, systemConfig)
		}
	}
	i.initialized = true
	i.logger.Info(ctx, "initializing systems", "systems", sortedNames(jobs))
	return i.runAll(ctx, jobs)
}

func (i *Initializer) systemConfig(ctx context.Context, name string) (*config.Config, error) {
	systemConfig, err := i.configTree.GetConfig(ctx, KEY_SYSTEMS+config.CONFIG_TREE_SEPARATOR+name)
	var notFound *config.ErrKeyNotFound
	if errors.As(err, &notFound) {
		return config.New(ctx)
	}
	return systemConfig, err
}

// Shutdown stops every initialized system, the initializer can be initialized again afterwards
func (i *Initializer) Shutdown() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	ctx := context.Background()
	jobs := make(map[string]func() error, len(i.systems))
	for name, wrapper := range i.systems {
		jobs[name] = wrapper.shutdown
	}
	i.initialized = false
	i.logger.Info(ctx, "shutting down systems", "systems", sortedNames(jobs))
	return i.runAll(ctx, jobs)
}

// runAll runs the jobs in parallel and joins their errors, it gives up after the configured timeout
func (i *Initializer) runAll(ctx context.Context, jobs map[string]func() error) error {
	errChan := make(chan error, len(jobs))
	finished := make(chan struct{})
	waitGroup := sync.WaitGroup{}
	for _, job := range jobs {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			errChan <- job()
		}()
	}
	go func() {
		waitGroup.Wait()
		close(finished)
	}()

	timer := time.NewTimer(i.timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
		i.logger.Warn(ctx, "operation timed out", "timeout", i.timeout)
		return ErrTimeout
	case <-finished:
	}
	close(errChan)
	var joinedErr error
	for err := range errChan {
		if err != nil {
			i.logger.Error(ctx, "system failed", "error", err)
			joinedErr = errors.Join(joinedErr, err)
		}
	}
	return joinedErr
}

func sortedNames(jobs map[string]func() error) []string {
	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
