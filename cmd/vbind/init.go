package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		force    bool
		template string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter project",
		Long: `Create vbind.yaml and index.html in dir (default ".").

Existing files are left alone unless --force is given.

Templates: ` + strings.Join(templates.List(), ", ") + `

Examples:
  vbind init
  vbind init ./signup --template=form`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, template, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	cmd.Flags().StringVarP(&template, "template", "t", templates.DefaultName, "Starter template")

	return cmd
}

func runInit(dir, name string, force bool) error {
	tmpl, err := templates.Get(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New("E400").WithDetail("cannot create " + dir).Wrap(err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	for _, rel := range tmpl.Paths() {
		path := filepath.Join(dir, rel)
		if _, err := os.Stat(path); err == nil && !force {
			return errors.New("E400").
				WithDetail(path + " already exists").
				WithSuggestion("Use --force to overwrite")
		}
	}

	if err := tmpl.Create(dir, templates.Config{ProjectName: filepath.Base(abs)}); err != nil {
		return err
	}

	for _, rel := range tmpl.Paths() {
		success("Created %s", filepath.Join(dir, rel))
	}
	fmt.Println()
	info("Next: vbind serve %s", dir)
	return nil
}
