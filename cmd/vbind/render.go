package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
)

// step is one --set, --input or --click, kept in command-line order.
type step struct {
	kind string
	arg  string
}

// stepFlag appends to a shared list so steps of different kinds keep
// their relative order.
type stepFlag struct {
	kind  string
	steps *[]step
}

func (f *stepFlag) String() string { return "" }
func (f *stepFlag) Type() string   { return "string" }

func (f *stepFlag) Set(s string) error {
	*f.steps = append(*f.steps, step{kind: f.kind, arg: s})
	return nil
}

type renderOptions struct {
	steps    []step
	refs     bool
	rootOnly bool
}

func renderCmd(flags *globalFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [dir]",
		Short: "Render a project's template",
		Long: `Render the template of the project in dir (default ".") and print
the resulting HTML.

Writes, input and clicks are applied in the order given, so the output
shows the page after a scripted interaction. Elements are addressed by
CSS selector or by their numeric reference (see --refs).

Examples:
  vbind render
  vbind render ./site --set count=3
  vbind render --input 'input=Grace' --click button --click button
  vbind render --refs`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), dir, flags, opts)
		},
	}

	cmd.Flags().Var(&stepFlag{kind: "set", steps: &opts.steps}, "set", "Write key=value (value parsed as YAML)")
	cmd.Flags().Var(&stepFlag{kind: "input", steps: &opts.steps}, "input", "Type into target=value")
	cmd.Flags().Var(&stepFlag{kind: "click", steps: &opts.steps}, "click", "Click target")
	cmd.Flags().BoolVar(&opts.refs, "refs", false, "Annotate elements with their references")
	cmd.Flags().BoolVar(&opts.rootOnly, "root", false, "Print only the root element")

	return cmd
}

func runRender(ctx context.Context, out io.Writer, dir string, flags *globalFlags, opts *renderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	project, err := vbind.LoadProject(ctx, dir, nil)
	if err != nil {
		return err
	}
	logger, err := flags.logger(project.Config)
	if err != nil {
		return err
	}

	projOpts := project.Options()
	projOpts.Logger = logger
	doc, vm, err := vbind.Mount(string(project.Template), projOpts)
	if err != nil {
		return err
	}
	if opts.refs {
		doc.AnnotateRefs()
	}

	for _, s := range opts.steps {
		if err := apply(doc, vm, s); err != nil {
			return err
		}
		logger.Debug("applied", "step", s.kind, "arg", s.arg)
	}

	if opts.rootOnly {
		root, ok := vm.Root().(*dom.Element)
		if ok {
			_, err = fmt.Fprintln(out, root.OuterHTML())
			return err
		}
	}
	_, err = fmt.Fprintln(out, doc.HTML())
	return err
}

func apply(doc *dom.Document, vm *vbind.Instance, s step) error {
	switch s.kind {
	case "set":
		key, raw, ok := splitAssign(s.arg)
		if !ok || key == "" {
			return errors.New("E400").WithDetailf("--set %q: expected key=value", s.arg)
		}
		vm.Set(key, parseValue(raw))
		return nil

	case "input":
		target, value, ok := splitAssign(s.arg)
		if !ok {
			return errors.New("E400").WithDetailf("--input %q: expected target=value", s.arg)
		}
		el, err := resolve(doc, target)
		if err != nil {
			return err
		}
		doc.Input(el, value)
		return nil

	case "click":
		el, err := resolve(doc, s.arg)
		if err != nil {
			return err
		}
		doc.Click(el)
		return nil
	}
	return fmt.Errorf("unknown step %q", s.kind)
}

// splitAssign splits at the first '=' outside brackets, so attribute
// selectors like input[type=text] can be used as targets.
func splitAssign(s string) (left, right string, ok bool) {
	depth := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case '=':
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// resolve finds an element by reference number or CSS selector.
func resolve(doc *dom.Document, target string) (*dom.Element, error) {
	if target != "" && strings.Trim(target, "0123456789") == "" {
		if el, ok := doc.ByRef(target); ok {
			return el, nil
		}
	}
	el, err := doc.QuerySelector(target)
	if err != nil {
		return nil, errors.New("E400").WithDetailf("bad target %q", target).Wrap(err)
	}
	if el == nil {
		return nil, errors.New("E400").WithDetailf("no element matches %q", target)
	}
	return el, nil
}

// parseValue reads a --set value as a YAML scalar: 3 is a number, true a
// bool, anything unparsable a plain string.
func parseValue(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	if v == nil && raw != "null" && raw != "~" {
		return raw
	}
	return v
}
