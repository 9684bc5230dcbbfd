package cli

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/fjglira/casefixtures/internal/domain"
	"github.com/fjglira/casefixtures/internal/resolver"
	"github.com/fjglira/casefixtures/internal/scanner"
)

var (
	listRoot     string
	listPackage  string
	listFunction string
	listDir      string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the case directory and files a test resolves to",
	Long: `Resolves the case directory of a test from its package and function
name (or takes --dir as is) and lists the matching case files.`,
	Example: `  casefixtures list --package ops --func TestAdd_WhenBothPositive
  casefixtures list --dir ops/TestAdd`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd, listRoot)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if listDir != "" {
			cfg.Cases.Directory = listDir
		}

		owner := domain.Identity{Function: listFunction}
		root := listRoot
		if cfg.Cases.Directory == "" {
			if listFunction == "" {
				return fmt.Errorf("either --dir or --func is required")
			}
			if root, err = moduleRoot(listRoot); err != nil {
				return err
			}
			if owner.Module, err = resolver.ModulePath(root); err != nil {
				return err
			}
			owner.Namespace = path.Join(owner.Module, listPackage)
		}

		dir, err := newProvider(cfg, root).Directory(owner)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "directory: %s\n", dir)

		files, err := scanner.NewScanner().Discover(dir, cfg.Cases.Patterns)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(out, f)
		}
		log.Debugf("Listed %d case file(s)", len(files))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listRoot, "module-root", "", "module root (default: nearest go.mod)")
	listCmd.Flags().StringVarP(&listPackage, "package", "p", "", "package directory relative to the module root")
	listCmd.Flags().StringVarP(&listFunction, "func", "f", "", "test function name")
	listCmd.Flags().StringVarP(&listDir, "dir", "d", "", "explicit case directory")
	rootCmd.AddCommand(listCmd)
}
