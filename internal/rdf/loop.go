package rdf

import (
	"context"
	"sync"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/rdfworkflow/internal/ctxlog"
)

// cancelCheckInterval is the number of entries processed between context
// checks.
const cancelCheckInterval = 1024

const (
	unknown int8 = iota
	passed
	rejected
)

// loop owns the nodes and booked actions sharing one head.
type loop struct {
	mu      sync.Mutex
	src     *Source
	nodes   []*Node
	pending []*action
	runs    int
}

func (l *loop) add(n *Node) *Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	n.loop = l
	n.id = len(l.nodes)
	l.nodes = append(l.nodes, n)
	return n
}

func (l *loop) book(a *action) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, a)
}

// Runs returns how many event loops have been run.
func (n *Node) Runs() int {
	n.loop.mu.Lock()
	defer n.loop.mu.Unlock()
	return n.loop.runs
}

// runState is the state of one event loop shared by all entries.
type runState struct {
	rangeSeen []int
}

// entry is the per-entry evaluation cache.
type entry struct {
	run       *runState
	src       *Source
	index     int
	pass      []int8
	defined   []cty.Value
	evaluated []bool
}

func (e *entry) global() int { return e.src.offset + e.index }

func (e *entry) reset(index int) {
	e.index = index
	for i := range e.pass {
		e.pass[i] = unknown
		e.evaluated[i] = false
	}
}

// runLocked fills every pending action in a single pass over the entries.
// The caller holds l.mu. An error fails every action of the pass.
func (l *loop) runLocked(ctx context.Context) {
	actions := l.pending
	l.pending = nil
	if len(actions) == 0 {
		return
	}

	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	n := len(l.nodes)
	e := &entry{
		run:       &runState{rangeSeen: make([]int, n)},
		src:       l.src,
		pass:      make([]int8, n),
		defined:   make([]cty.Value, n),
		evaluated: make([]bool, n),
	}

	err := func() error {
		for i := 0; i < l.src.Entries(); i++ {
			if i%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			e.reset(i)
			for _, a := range actions {
				ok, err := a.node.accept(e)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				if err := a.fill(e); err != nil {
					return err
				}
			}
		}
		return nil
	}()

	for _, a := range actions {
		a.done = true
		if err != nil {
			a.err = err
			continue
		}
		a.value, a.err = a.finish(ctx)
	}
	l.runs++
	logger.Debug("Event loop finished.",
		"entries", l.src.Entries(),
		"actions", len(actions),
		"duration", time.Since(start),
		"error", err,
	)
}
