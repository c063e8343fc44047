package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamancini/uvu/internal/config"
	"github.com/adamancini/uvu/internal/templates"
)

// settingsFileName is the project settings file written by init.
const settingsFileName = ".uvu.yaml"

func newInitCmd() *cobra.Command {
	var templateName string
	var global bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a settings file from a template",
		Long: `Create a uvu settings file from a built-in template.

Available templates:
  full     - Every setting with its default
  groups   - Review extras and dependency groups too
  minimal  - uv binary and exclusions only

The file is written to .uvu.yaml in the project directory, or to
$XDG_CONFIG_HOME/uvu/config.yaml with --global.

Examples:
  uvu init                      # Interactive mode
  uvu init --template=minimal   # Direct template selection
  uvu init -C ~/src/app --template=groups
  uvu init --global --template=full`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath := filepath.Join(projectDir, settingsFileName)
			if global {
				outputPath = globalSettingsPath()
			}
			return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), templateName, outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "", "Template name")
	cmd.Flags().BoolVar(&global, "global", false, "Write the per-user settings file instead of the project one")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing settings file")

	_ = cmd.RegisterFlagCompletionFunc("template", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var completions []string
		for _, name := range templates.List() {
			completions = append(completions, fmt.Sprintf("%s\t%s", name, templates.GetDescription(name)))
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runInit executes the init workflow.
func runInit(stdin io.Reader, stdout, stderr io.Writer, templateName, outputPath string, force bool) error {
	reader := bufio.NewReader(stdin)

	if _, err := os.Stat(outputPath); err == nil && !force {
		_, _ = fmt.Fprintf(stderr, "Settings file already exists at %s\n", outputPath)
		_, _ = fmt.Fprint(stdout, "Overwrite? [y/N]: ")
		answer, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read input: %w", err)
		}
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			_, _ = fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	if templateName == "" {
		selected, err := selectTemplateInteractive(reader, stdout)
		if err != nil {
			return err
		}
		templateName = selected
	}

	tmpl, err := templates.Get(templateName)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	if err := validateTemplateContent(tmpl.Content); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(outputPath), err)
	}
	if err := os.WriteFile(outputPath, tmpl.Content, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "Created %s from the '%s' template\n", outputPath, templateName)
	_, _ = fmt.Fprintln(stdout, "\nNext steps:")
	_, _ = fmt.Fprintln(stdout, "  1. Edit the settings file to customize")
	_, _ = fmt.Fprintln(stdout, "  2. Run 'uvu list' to preview available upgrades")
	_, _ = fmt.Fprintln(stdout, "  3. Run 'uvu' to review them")

	return nil
}

// selectTemplateInteractive shows a numbered menu of templates.
func selectTemplateInteractive(reader *bufio.Reader, stdout io.Writer) (string, error) {
	names := templates.List()

	_, _ = fmt.Fprintln(stdout, "Select a settings template:")
	for i, name := range names {
		_, _ = fmt.Fprintf(stdout, "  %d. %-8s - %s\n", i+1, name, templates.GetDescription(name))
	}
	_, _ = fmt.Fprintf(stdout, "\nSelect [1-%d]: ", len(names))

	answer, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || answer == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	answer = strings.TrimSpace(answer)

	num, err := strconv.Atoi(answer)
	if err != nil || num < 1 || num > len(names) {
		return "", fmt.Errorf("invalid selection: %s", answer)
	}
	return names[num-1], nil
}

// validateTemplateContent loads content through the settings loader.
func validateTemplateContent(content []byte) error {
	tmpFile, err := os.CreateTemp("", "uvu-settings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmpFile.Write(content); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	_, err = config.Load(tmpName)
	return err
}

// globalSettingsPath returns the per-user settings file location.
func globalSettingsPath() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "uvu", "config.yaml")
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "uvu", "config.yaml")
}
