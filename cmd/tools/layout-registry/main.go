// cmd/tools/layout-registry/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"interview-reports/pkg/registry"
)

const defaultPath = "configs/layouts.yaml"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	if len(args) < 1 {
		help(out)
		return 1
	}

	var registryPath string
	switch args[0] {
	case "validate":
		validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
		validateCmd.SetOutput(out)
		validateCmd.StringVar(&registryPath, "path", defaultPath, "Path to registry file")
		if err := validateCmd.Parse(args[1:]); err != nil {
			return 2
		}
		if err := validateRegistry(registryPath, out); err != nil {
			fmt.Fprintf(out, "Registry validation failed: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, "Registry validation passed.")

	case "list":
		listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
		listCmd.SetOutput(out)
		listCmd.StringVar(&registryPath, "path", "", "Path to registry file (empty lists the built-in layouts)")
		if err := listCmd.Parse(args[1:]); err != nil {
			return 2
		}
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			fmt.Fprintf(out, "Error loading registry: %v\n", err)
			return 1
		}
		listTemplates(reg, out)

	case "export":
		exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
		exportCmd.SetOutput(out)
		exportCmd.StringVar(&registryPath, "path", defaultPath, "Where to write the built-in layouts (- for stdout)")
		force := exportCmd.Bool("force", false, "Overwrite an existing file")
		if err := exportCmd.Parse(args[1:]); err != nil {
			return 2
		}
		if err := exportBuiltin(registryPath, *force, out); err != nil {
			fmt.Fprintf(out, "Error exporting registry: %v\n", err)
			return 1
		}

	case "help":
		help(out)

	default:
		help(out)
		return 1
	}
	return 0
}

// validateRegistry checks one file on its own, without the built-ins filling gaps.
func validateRegistry(path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read registry: %w", err)
	}
	reg, err := registry.Parse(data)
	if err != nil {
		return err
	}
	if len(reg.Templates) == 0 {
		return fmt.Errorf("registry contains no templates")
	}
	for _, tpl := range reg.Templates {
		fmt.Fprintf(out, "  ok  %s (%d fields, %d blocks)\n", tpl.Variant, len(tpl.Fields), len(tpl.Blocks))
	}
	return nil
}

func listTemplates(reg *registry.LayoutRegistry, out io.Writer) {
	fmt.Fprintf(out, "Layout registry version %s\n", reg.Version)
	for _, tpl := range reg.Templates {
		fmt.Fprintf(out, "\n%s", tpl.Variant)
		if tpl.Description != "" {
			fmt.Fprintf(out, ": %s", tpl.Description)
		}
		fmt.Fprintln(out)

		for _, b := range tpl.Fields {
			value := b.Text
			if value == "" {
				value = "{" + b.Field + "}"
			}
			fmt.Fprintf(out, "  %-6s %s\n", b.Cell, value)
		}
		for _, b := range tpl.Blocks {
			line := fmt.Sprintf("  %-6s [%s]", b.Anchor, b.Kind)
			if b.Title != "" {
				line += " " + b.Title
			}
			if b.Slots > 0 {
				line += fmt.Sprintf(" (%d slots)", b.Slots)
			}
			fmt.Fprintln(out, line)
		}
	}
}

func exportBuiltin(path string, force bool, out io.Writer) error {
	data, err := registry.Marshal(registry.Builtin())
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if path == "-" {
		_, err := out.Write(data)
		return err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	fmt.Fprintf(out, "Wrote %d built-in layouts to %s\n", len(registry.Builtin().Templates), path)
	return nil
}

func help(out io.Writer) {
	fmt.Fprintln(out, strings.TrimSpace(`
Layout Registry Tool

Usage:
  layout-registry validate -path=<file>          Validate a registry file
  layout-registry list [-path=<file>]            Show the effective layouts
  layout-registry export -path=<file> [-force]   Write the built-in layouts as YAML
  layout-registry help                           Show this help message`))
}
