package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crofthq/croft/internal/depgraph"
	"github.com/crofthq/croft/internal/kv"
)

func newCoordinator(t *testing.T) (*Coordinator, kv.Store) {
	t.Helper()
	store, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return New(store, nil), store
}

func record(name, path string, imports, exports, tests []string) *ComponentRecord {
	return &ComponentRecord{
		Name:    name,
		Path:    path,
		Imports: imports,
		Exports: exports,
		Tests:   tests,
	}
}

func TestCheckImports_EmptyGraphAlwaysPasses(t *testing.T) {
	c, _ := newCoordinator(t)

	err := c.CheckImports(context.Background(), "api/users", []string{"lib/db", "lib/auth"})
	assert.NoError(t, err)
}

func TestCheckImports_SelfImportRejected(t *testing.T) {
	c, _ := newCoordinator(t)

	err := c.CheckImports(context.Background(), "api/users", []string{"api/users"})
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"api/users", "api/users"}, cycleErr.Walk)
}

func TestCheckImports_SecondRegistrationCycleCaught(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	// A imports B; fine, B is not registered yet.
	require.NoError(t, c.CheckImports(ctx, "a", []string{"b"}))
	require.NoError(t, c.Register(ctx, record("a", "a", []string{"b"}, []string{"A"}, nil)))

	// B importing A must be caught before it is persisted.
	err := c.CheckImports(ctx, "b", []string{"a"})
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, "b", cycleErr.Walk[0])
	assert.Equal(t, "b", cycleErr.Walk[len(cycleErr.Walk)-1])
}

func TestCheckImports_DoesNotMutateStoredState(t *testing.T) {
	c, store := newCoordinator(t)
	ctx := context.Background()

	// Passing check writes nothing.
	require.NoError(t, c.CheckImports(ctx, "a", []string{"b"}))
	_, err := store.Get(ctx, depgraph.GraphKey)
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)

	// Failing check writes nothing either.
	require.NoError(t, c.Register(ctx, record("a", "a", []string{"b"}, nil, nil)))
	require.NoError(t, c.Register(ctx, record("b", "b", nil, nil, nil)))
	before, err := store.Get(ctx, depgraph.GraphKey)
	require.NoError(t, err)

	require.Error(t, c.CheckImports(ctx, "b", []string{"a"}))
	after, err := store.Get(ctx, depgraph.GraphKey)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestCheckImports_LongerWalkReported(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, record("b", "b", []string{"c"}, nil, nil)))
	require.NoError(t, c.Register(ctx, record("c", "c", []string{"d"}, nil, nil)))
	require.NoError(t, c.Register(ctx, record("d", "d", nil, nil, nil)))

	// a -> b -> c -> d, then d -> a closes the loop at distance four.
	require.NoError(t, c.Register(ctx, record("a", "a", []string{"b"}, nil, nil)))
	err := c.CheckImports(ctx, "d", []string{"a"})
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"d", "a", "b", "c", "d"}, cycleErr.Walk)
}

func TestRegister_Idempotent(t *testing.T) {
	c, store := newCoordinator(t)
	ctx := context.Background()

	rec := record("users", "api/users", []string{"lib/db"}, []string{"Handler"}, []string{"users_test.go"})
	require.NoError(t, c.Register(ctx, record("db", "lib/db", nil, []string{"Client"}, nil)))
	require.NoError(t, c.Register(ctx, rec))

	first, err := store.Get(ctx, depgraph.GraphKey)
	require.NoError(t, err)

	require.NoError(t, c.Register(ctx, rec))
	second, err := store.Get(ctx, depgraph.GraphKey)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestRegister_LinksDependents(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, record("db", "lib/db", nil, []string{"Client"}, nil)))
	require.NoError(t, c.Register(ctx, record("users", "api/users", []string{"lib/db"}, nil, nil)))

	g, err := depgraph.NewStore(mustStore(t, c)).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"api/users"}, g["lib/db"].Dependents)
}

func TestRegister_LateTargetGainsDependents(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	// users imports a path registered only afterwards; the dependent link
	// must appear once the target exists.
	require.NoError(t, c.Register(ctx, record("users", "api/users", []string{"lib/db"}, nil, nil)))
	require.NoError(t, c.Register(ctx, record("db", "lib/db", nil, []string{"Client"}, nil)))

	g, err := depgraph.NewStore(mustStore(t, c)).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"api/users"}, g["lib/db"].Dependents)
}

func TestRegister_InvalidRecord(t *testing.T) {
	c, _ := newCoordinator(t)

	assert.ErrorIs(t, c.Register(context.Background(), record("", "p", nil, nil, nil)), ErrEmptyName)
	assert.ErrorIs(t, c.Register(context.Background(), record("n", "", nil, nil, nil)), ErrEmptyPath)
}

func TestEvaluateCompletion_UnknownComponent(t *testing.T) {
	c, _ := newCoordinator(t)

	_, err := c.EvaluateCompletion(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrComponentNotFound)
}

func TestEvaluateCompletion_AllChecksPass(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	rec := record("users", "api/users", nil, []string{"Handler"}, []string{"users_test.go"})
	require.NoError(t, c.Register(ctx, rec))
	require.NoError(t, c.RecordDesignReview(ctx, &ReviewRecord{
		Component:  "users",
		Approved:   true,
		Reviewer:   "sam",
		RecordedAt: time.Now(),
	}))

	report, err := c.EvaluateCompletion(ctx, "users")
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Empty(t, report.Failing())
}

func TestEvaluateCompletion_EmptyTestListAlwaysFailsHasTests(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	rec := record("users", "api/users", nil, []string{"Handler"}, nil)
	require.NoError(t, c.Register(ctx, rec))
	require.NoError(t, c.RecordDesignReview(ctx, &ReviewRecord{Component: "users", Approved: true}))

	report, err := c.EvaluateCompletion(ctx, "users")
	require.NoError(t, err)
	assert.False(t, report[CheckHasTests])
	assert.False(t, report.Passed())
	assert.Equal(t, []string{CheckHasTests}, report.Failing())
}

func TestEvaluateCompletion_MissingReviewFails(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, record("users", "api/users", nil, []string{"H"}, []string{"t"})))

	report, err := c.EvaluateCompletion(ctx, "users")
	require.NoError(t, err)
	assert.False(t, report[CheckDesignReview])
}

func TestEvaluateCompletion_NoExportsFails(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, record("users", "api/users", nil, nil, []string{"t"})))
	require.NoError(t, c.RecordDesignReview(ctx, &ReviewRecord{Component: "users", Approved: true}))

	report, err := c.EvaluateCompletion(ctx, "users")
	require.NoError(t, err)
	assert.False(t, report[CheckExportsDefined])
}

func TestEvaluateCompletion_CommittedCycleFailsNoCycles(t *testing.T) {
	c, _ := newCoordinator(t)
	ctx := context.Background()

	// A caller that skipped CheckImports can commit a cycle; completion
	// evaluation must still surface it.
	require.NoError(t, c.Register(ctx, record("a", "a", []string{"b"}, []string{"A"}, []string{"t"})))
	require.NoError(t, c.Register(ctx, record("b", "b", []string{"a"}, []string{"B"}, []string{"t"})))
	require.NoError(t, c.RecordDesignReview(ctx, &ReviewRecord{Component: "a", Approved: true}))

	report, err := c.EvaluateCompletion(ctx, "a")
	require.NoError(t, err)
	assert.False(t, report[CheckNoCycles])
	assert.Equal(t, []string{CheckNoCycles}, report.Failing())
}

func TestBlockedError_NamesFailingChecks(t *testing.T) {
	err := &BlockedError{
		Component: "users",
		Report: CompletionReport{
			CheckHasTests:       false,
			CheckNoCycles:       true,
			CheckExportsDefined: false,
		},
	}
	assert.Contains(t, err.Error(), "users")
	assert.Contains(t, err.Error(), CheckHasTests)
	assert.Contains(t, err.Error(), CheckExportsDefined)
}

func TestCycleError_Message(t *testing.T) {
	err := &CycleError{Walk: []string{"a", "b", "a"}}
	assert.Equal(t, "circular dependency: a -> b -> a", err.Error())
}

// mustStore exposes the coordinator's backing kv store for graph-level
// assertions.
func mustStore(t *testing.T, c *Coordinator) kv.Store {
	t.Helper()
	require.NotNil(t, c.kv)
	return c.kv
}
