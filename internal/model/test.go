// Package model defines the data structures for the shell test harness.
package model

// DirectiveKind classifies the annotation attached to a test function.
type DirectiveKind int

const (
	// DirectiveNone means the test runs and is judged normally.
	DirectiveNone DirectiveKind = iota
	// DirectiveSkip means the test is reported without being run.
	DirectiveSkip
	// DirectiveTodo means the test runs but its outcome is remapped:
	// a failure is expected, a success is flagged.
	DirectiveTodo
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveSkip:
		return "skip"
	case DirectiveTodo:
		return "todo"
	case DirectiveNone:
		return "none"
	}

	return "unknown"
}

// Directive is a skip/todo annotation with an optional reason, attached by a
// `# @SKIP reason` or `# @TODO reason` comment immediately above a function.
type Directive struct {
	Kind   DirectiveKind
	Reason string
}

// TestFile is one discovered test source file.
type TestFile struct {
	Path Path
	// Cases are the eligible test functions in declaration order.
	Cases []TestCase
}

// TestCase is one test function within a discovered file.
type TestCase struct {
	File      Path
	Name      string
	Line      int
	Directive Directive
}

// ExecutionPlan is the ordered sequence of test cases for one run.
// Ordering is file discovery order, then declaration order within a file,
// and is what gives protocol sequence numbers their meaning.
type ExecutionPlan struct {
	Cases []TestCase
}

// Total returns the number of planned test cases.
func (p ExecutionPlan) Total() int {
	return len(p.Cases)
}

// Files returns the distinct files in the plan, in plan order.
func (p ExecutionPlan) Files() []Path {
	var files []Path

	seen := make(map[Path]bool)

	for _, tc := range p.Cases {
		if !seen[tc.File] {
			seen[tc.File] = true

			files = append(files, tc.File)
		}
	}

	return files
}
