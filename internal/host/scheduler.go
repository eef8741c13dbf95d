package host

// Scheduler is the platform's task-execution capability. Three contexts
// exist: a global single-threaded context, per-entity owning contexts
// (ownership can migrate between threads over an entity's lifetime), and an
// unordered pool for blocking work.
//
// All three primitives QUEUE: the task runs on a later scheduling pass even
// when the caller is already on the target context. The menu core relies on
// this to defer screen transitions requested from inside event handlers.
// RunEntityOwner must resolve the entity's current owner at call time, not
// at some earlier capture point.
type Scheduler interface {
	RunGlobal(task func())
	RunEntityOwner(entity string, task func())
	RunOffContext(task func())
}
