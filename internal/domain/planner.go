// Package domain implements the test execution engine: discovery, isolated
// execution, coverage collection, and protocol emission.
package domain

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/southpawriter02/shell-spec/internal/adapter"
	m "github.com/southpawriter02/shell-spec/internal/model"
)

// Discovery defaults.
const (
	DefaultPattern = "*_test.sh"
	DefaultPrefix  = "test_"
)

// PlanArgs configures one discovery pass.
type PlanArgs struct {
	Paths   []m.Path
	Pattern string
	Prefix  string
	Exclude []string
}

// Planner enumerates test files and resolves their test functions into an
// ordered execution plan without running any test code.
type Planner interface {
	Plan(args PlanArgs) (m.ExecutionPlan, error)
}

// PlanDiagnostic reports a file that was skipped during discovery.
type PlanDiagnostic func(path m.Path, err error)

type planner struct {
	fs       adapter.ScriptFSAdapter
	diagnose PlanDiagnostic
}

// NewPlanner constructs a Planner backed by the provided filesystem adapter.
// diagnose is invoked for every file that fails to load; discovery of the
// remaining files continues.
func NewPlanner(fs adapter.ScriptFSAdapter, diagnose PlanDiagnostic) Planner {
	if diagnose == nil {
		diagnose = func(m.Path, error) {}
	}

	return &planner{fs: fs, diagnose: diagnose}
}

// Plan walks the given roots, collects files matching the glob, and parses
// each one for functions carrying the test prefix. Zero matches is not an
// error: the caller reports "no tests found" with success status.
func (p *planner) Plan(args PlanArgs) (m.ExecutionPlan, error) {
	pattern := args.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}

	prefix := args.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	roots := args.Paths
	if len(roots) == 0 {
		roots = []m.Path{"."}
	}

	exclude, err := compileExcludes(args.Exclude)
	if err != nil {
		return m.ExecutionPlan{}, err
	}

	files, err := p.collectFiles(roots, pattern, exclude)
	if err != nil {
		return m.ExecutionPlan{}, err
	}

	var plan m.ExecutionPlan

	for _, file := range files {
		src, err := p.fs.ReadFile(file)
		if err != nil {
			slog.Warn("skipping unreadable test file", "path", file, "error", err)
			p.diagnose(file, err)

			continue
		}

		cases, err := parseTestFile(file, src, prefix)
		if err != nil {
			slog.Warn("skipping unparseable test file", "path", file, "error", err)
			p.diagnose(file, err)

			continue
		}

		plan.Cases = append(plan.Cases, cases...)
	}

	return plan, nil
}

func (p *planner) collectFiles(roots []m.Path, pattern string, exclude []*regexp.Regexp) ([]m.Path, error) {
	var files []m.Path

	seen := make(map[m.Path]bool)

	for _, root := range roots {
		info, err := p.fs.FileInfo(root)
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			abs, err := p.fs.Abs(root)
			if err != nil {
				return nil, err
			}

			if !seen[abs] {
				seen[abs] = true

				files = append(files, abs)
			}

			continue
		}

		err = p.fs.Walk(root, true, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				p.diagnose(m.Path(path), err)
				return nil
			}

			if info.IsDir() {
				return nil
			}

			ok, err := p.fs.MatchBase(pattern, m.Path(path))
			if err != nil {
				return err
			}

			if !ok || excluded(path, exclude) {
				return nil
			}

			abs, err := p.fs.Abs(m.Path(path))
			if err != nil {
				return err
			}

			if !seen[abs] {
				seen[abs] = true

				files = append(files, abs)
			}

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	var compiled []*regexp.Regexp

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func excluded(path string, exclude []*regexp.Regexp) bool {
	for _, re := range exclude {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// parseTestFile loads the file's declarations through the shell syntax
// parser, never executing anything, and returns test cases in declaration
// order. Directive comments of the form `# @SKIP reason` or `# @TODO reason`
// on the line immediately above a function attach to it.
func parseTestFile(path m.Path, src []byte, prefix string) ([]m.TestCase, error) {
	parser := syntax.NewParser(syntax.KeepComments(true), syntax.Variant(syntax.LangBash))

	file, err := parser.Parse(bytes.NewReader(src), string(path))
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	var cases []m.TestCase

	for _, stmt := range file.Stmts {
		decl, ok := stmt.Cmd.(*syntax.FuncDecl)
		if !ok {
			continue
		}

		name := decl.Name.Value
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		line := int(decl.Pos().Line())

		cases = append(cases, m.TestCase{
			File:      path,
			Name:      name,
			Line:      line,
			Directive: directiveFor(stmt.Comments, line),
		})
	}

	// Parser order already follows the source; keep it stable regardless.
	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].Line < cases[j].Line
	})

	return cases, nil
}

// directiveFor scans the comments attached to a statement for a directive on
// the line directly above the declaration.
func directiveFor(comments []syntax.Comment, declLine int) m.Directive {
	for _, c := range comments {
		if int(c.Pos().Line()) != declLine-1 {
			continue
		}

		if d, ok := parseDirective(c.Text); ok {
			return d
		}
	}

	return m.Directive{Kind: m.DirectiveNone}
}

func parseDirective(text string) (m.Directive, bool) {
	trimmed := strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(trimmed, "@SKIP"):
		return m.Directive{
			Kind:   m.DirectiveSkip,
			Reason: strings.TrimSpace(strings.TrimPrefix(trimmed, "@SKIP")),
		}, true
	case strings.HasPrefix(trimmed, "@TODO"):
		return m.Directive{
			Kind:   m.DirectiveTodo,
			Reason: strings.TrimSpace(strings.TrimPrefix(trimmed, "@TODO")),
		}, true
	}

	return m.Directive{}, false
}
