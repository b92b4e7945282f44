package platform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/JamesNgai/qtbot/logger/dlog"
)

// Cog is a named, independently loadable bundle of command handlers.
type Cog interface {
	Name() string
	Commands() []*Command
}

// Factory builds a cog instance against the bot. A factory returning an
// error marks the extension failed without touching any other extension.
type Factory func(b *Bot) (Cog, error)

// BootstrapCog can never be bulk-reloaded: unloading it would remove the
// commands that manage the other extensions.
const BootstrapCog = "admin"

type State int

const (
	StateUnloaded State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unloaded"
	}
}

// LoadError wraps the failure that kept an extension from activating.
type LoadError struct {
	Extension string
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load extension %s: %v", e.Extension, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var (
	ErrUnknownExtension = errors.New("platform: unknown extension")
	ErrNotLoaded        = errors.New("platform: extension not loaded")
	ErrAlreadyLoaded    = errors.New("platform: extension already loaded")
)

// ReloadOutcome is one extension's result from ReloadAll.
type ReloadOutcome struct {
	Extension string
	Err       error
}

// CogRegistry maps extension names to factories and tracks which are
// active. It also owns the command index the router dispatches against.
type CogRegistry struct {
	bot *Bot

	mu        sync.RWMutex
	factories map[string]Factory
	denied    map[string]struct{}
	states    map[string]State
	active    map[string]Cog
	commands  map[string]*Command
	cmdOwner  map[string]string
}

func NewCogRegistry(bot *Bot) *CogRegistry {
	return &CogRegistry{
		bot:       bot,
		factories: make(map[string]Factory),
		denied:    make(map[string]struct{}),
		states:    make(map[string]State),
		active:    make(map[string]Cog),
		commands:  make(map[string]*Command),
		cmdOwner:  make(map[string]string),
	}
}

// Register makes an extension known. Every registered extension starts
// unloaded.
func (r *CogRegistry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	r.states[name] = StateUnloaded
}

// Deny excludes extensions from Discover (and therefore from the startup
// load), e.g. one still under development. Explicit Load is still allowed.
func (r *CogRegistry) Deny(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.denied[name] = struct{}{}
	}
}

// Discover lists registered extensions minus the deny-list, sorted.
func (r *CogRegistry) Discover() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		if _, denied := r.denied[name]; denied {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load activates one extension. On factory failure the extension lands in
// StateFailed, a LoadError carrying the cause is returned and nothing else
// is affected.
func (r *CogRegistry) Load(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	factory, ok := r.factories[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownExtension, name)
	}
	if _, loaded := r.active[name]; loaded {
		return fmt.Errorf("%w: %s", ErrAlreadyLoaded, name)
	}

	cog, err := factory(r.bot)
	if err != nil {
		r.states[name] = StateFailed
		return &LoadError{Extension: name, Err: err}
	}

	for _, cmd := range cog.Commands() {
		r.indexCommand(name, cmd.Name, cmd)
		for _, alias := range cmd.Aliases {
			r.indexCommand(name, alias, cmd)
		}
	}
	r.active[name] = cog
	r.states[name] = StateLoaded
	return nil
}

func (r *CogRegistry) indexCommand(cogName, trigger string, cmd *Command) {
	trigger = strings.ToLower(trigger)
	if owner, taken := r.cmdOwner[trigger]; taken && owner != cogName {
		dlog.Warn("command trigger collision", "trigger", trigger, "kept", cogName, "displaced", owner)
	}
	r.commands[trigger] = cmd
	r.cmdOwner[trigger] = cogName
}

// Unload deactivates a loaded extension and drops its commands from the
// index.
func (r *CogRegistry) Unload(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unloadLocked(name)
}

func (r *CogRegistry) unloadLocked(name string) error {
	if _, loaded := r.active[name]; !loaded {
		return fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	for trigger, owner := range r.cmdOwner {
		if owner == name {
			delete(r.commands, trigger)
			delete(r.cmdOwner, trigger)
		}
	}
	delete(r.active, name)
	r.states[name] = StateUnloaded
	return nil
}

// Reload is unload (best effort) then load. A failed load leaves the
// extension in StateFailed; there is no silent revert to the old instance.
func (r *CogRegistry) Reload(name string) error {
	r.mu.Lock()
	if _, ok := r.factories[name]; !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownExtension, name)
	}
	_ = r.unloadLocked(name)
	r.mu.Unlock()
	return r.Load(name)
}

// ReloadAll reloads every discovered extension except the bootstrap cog.
// It stops at the first failure and reports what it attempted.
func (r *CogRegistry) ReloadAll() []ReloadOutcome {
	outcomes := []ReloadOutcome{}
	for _, name := range r.Discover() {
		if name == BootstrapCog {
			continue
		}
		err := r.Reload(name)
		outcomes = append(outcomes, ReloadOutcome{Extension: name, Err: err})
		if err != nil {
			break
		}
	}
	return outcomes
}

// LoadAll loads every discovered extension for startup. One bad extension
// is logged and reported but never stops the others.
func (r *CogRegistry) LoadAll() []ReloadOutcome {
	outcomes := []ReloadOutcome{}
	for _, name := range r.Discover() {
		err := r.Load(name)
		if err != nil {
			dlog.Error("failed extension", "extension", name, "err", err)
		} else {
			dlog.Info("loaded extension", "extension", name)
		}
		outcomes = append(outcomes, ReloadOutcome{Extension: name, Err: err})
	}
	return outcomes
}

// State reports one extension's lifecycle state.
func (r *CogRegistry) State(name string) State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[name]
}

// Loaded lists currently active extensions, sorted.
func (r *CogRegistry) Loaded() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.active))
	for name := range r.active {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Command resolves a trigger (name or alias, case insensitive) against the
// currently loaded extensions.
func (r *CogRegistry) Command(trigger string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[strings.ToLower(trigger)]
	return cmd, ok
}
