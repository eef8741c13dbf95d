// Package sched implements the host scheduler: a distinguished global
// loop, a set of owner shards that entities are assigned to (and can
// migrate between), and an unordered worker pool for blocking work.
//
// Every primitive queues. A task scheduled from inside another task on the
// same loop runs on a later pass, never inline, which is what lets menu
// code request screen transitions from inside event handlers.
package sched

import (
	"fmt"
	"hash/fnv"
	"log"
	"sync"
	"sync/atomic"
)

type Pool struct {
	log    *log.Logger
	global *loop
	shards []*loop

	offQ chan func()
	stop chan struct{}
	wg   sync.WaitGroup

	mu     sync.Mutex
	owners map[string]int

	stopped  atomic.Bool
	stopOnce sync.Once
}

// NewPool starts one global loop, shards owner loops and workers
// off-context workers. Both counts are clamped to at least 1.
func NewPool(shards, workers int, logger *log.Logger) *Pool {
	if shards < 1 {
		shards = 1
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	p := &Pool{
		log:    logger,
		offQ:   make(chan func(), 256),
		stop:   make(chan struct{}),
		owners: make(map[string]int),
	}
	p.global = newLoop("global", logger)
	p.wg.Add(1)
	go p.global.run(&p.wg)
	for i := 0; i < shards; i++ {
		l := newLoop(fmt.Sprintf("shard-%d", i), logger)
		p.shards = append(p.shards, l)
		p.wg.Add(1)
		go l.run(&p.wg)
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) RunGlobal(task func()) {
	if p.stopped.Load() {
		return
	}
	p.global.enqueue(task)
}

// RunEntityOwner queues task on the shard that currently owns entity. The
// owner is resolved here, at schedule time; a migration between two calls
// moves later tasks to the new shard.
func (p *Pool) RunEntityOwner(entity string, task func()) {
	if p.stopped.Load() {
		return
	}
	p.shards[p.ownerShard(entity)].enqueue(task)
}

func (p *Pool) RunOffContext(task func()) {
	if p.stopped.Load() {
		return
	}
	select {
	case p.offQ <- task:
	case <-p.stop:
	}
}

// Owner reports the shard index currently owning entity, assigning one if
// the entity is new.
func (p *Pool) Owner(entity string) int { return p.ownerShard(entity) }

// Migrate moves an entity's ownership to another shard. Tasks already
// queued on the old shard run there; tasks scheduled afterwards land on
// the new one.
func (p *Pool) Migrate(entity string, shard int) {
	if shard < 0 || shard >= len(p.shards) {
		return
	}
	p.mu.Lock()
	p.owners[entity] = shard
	p.mu.Unlock()
}

// Release forgets an entity's shard assignment (disconnect path).
func (p *Pool) Release(entity string) {
	p.mu.Lock()
	delete(p.owners, entity)
	p.mu.Unlock()
}

// Stop shuts every loop down. Tasks scheduled after Stop are dropped;
// already-queued tasks may or may not run. Idempotent.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		close(p.stop)
		p.global.close()
		for _, l := range p.shards {
			l.close()
		}
	})
	p.wg.Wait()
}

func (p *Pool) ownerShard(entity string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.owners[entity]; ok {
		return s
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(entity))
	s := int(h.Sum32() % uint32(len(p.shards)))
	p.owners[entity] = s
	return s
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			return
		case task := <-p.offQ:
			runProtected(p.log, "offctx", task)
		}
	}
}

// loop is a single-goroutine executor with an unbounded queue, so enqueue
// never blocks and never runs the task inline (a bounded channel would
// deadlock a loop enqueueing onto itself).
type loop struct {
	name string
	log  *log.Logger

	mu sync.Mutex
	q  []func()

	wake chan struct{}
	done chan struct{}
}

func newLoop(name string, logger *log.Logger) *loop {
	return &loop{
		name: name,
		log:  logger,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (l *loop) enqueue(task func()) {
	l.mu.Lock()
	l.q = append(l.q, task)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *loop) close() {
	close(l.done)
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *loop) run(wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-l.done:
			return
		case <-l.wake:
		}
		for {
			l.mu.Lock()
			if len(l.q) == 0 {
				l.mu.Unlock()
				break
			}
			batch := l.q
			l.q = nil
			l.mu.Unlock()
			for _, task := range batch {
				select {
				case <-l.done:
					return
				default:
				}
				runProtected(l.log, l.name, task)
			}
		}
	}
}

func runProtected(logger *log.Logger, name string, task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("%s task panic: %v", name, r)
		}
	}()
	task()
}
