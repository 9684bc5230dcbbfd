package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/casefixtures/internal/scaffold"
)

var (
	scaffoldRoot    string
	scaffoldPackage string
	scaffoldName    string
	scaffoldStyle   string
	scaffoldFormat  string
	scaffoldInput   string
	scaffoldOutput  string
	scaffoldDryRun  bool
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Create a case directory with an example case and a test",
	Long: `Creates the case directory a new test resolves to, an example case
file, and a test file (plus suite_test.go for Ginkgo) in the package.
Existing files are never overwritten.`,
	Example: `  casefixtures scaffold --package ops --name Add_WhenBothPositive --input "[2]float64" --output float64`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd, scaffoldRoot)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		root, err := moduleRoot(scaffoldRoot)
		if err != nil {
			return err
		}

		engine, err := scaffold.NewEngine(log)
		if err != nil {
			return err
		}
		written, err := engine.Write(scaffold.Request{
			ModuleRoot:  root,
			Package:     scaffoldPackage,
			TestName:    scaffoldName,
			Style:       scaffoldStyle,
			Format:      scaffoldFormat,
			InputType:   scaffoldInput,
			OutputType:  scaffoldOutput,
			InputField:  cfg.Envelope.InputField,
			OutputField: cfg.Envelope.OutputField,
			BaseDir:     cfg.Cases.BaseDir,
			CaseDir:     cfg.Cases.Directory,
			DryRun:      scaffoldDryRun,
		})
		if err != nil {
			return err
		}
		for _, f := range written {
			fmt.Fprintln(cmd.OutOrStdout(), f.Path)
		}
		return nil
	},
}

func init() {
	scaffoldCmd.Flags().StringVar(&scaffoldRoot, "module-root", "", "module root (default: nearest go.mod)")
	scaffoldCmd.Flags().StringVarP(&scaffoldPackage, "package", "p", "", "package directory relative to the module root")
	scaffoldCmd.Flags().StringVarP(&scaffoldName, "name", "n", "", "test name, e.g. Add_WhenBothPositive")
	scaffoldCmd.Flags().StringVar(&scaffoldStyle, "style", scaffold.StyleTesting, "test style: testing or ginkgo")
	scaffoldCmd.Flags().StringVar(&scaffoldFormat, "format", "json", "case file format: json or yaml")
	scaffoldCmd.Flags().StringVar(&scaffoldInput, "input", "any", "Go type of the input parameter")
	scaffoldCmd.Flags().StringVar(&scaffoldOutput, "output", "any", "Go type of the expected output parameter")
	scaffoldCmd.Flags().BoolVar(&scaffoldDryRun, "dry-run", false, "render but don't write files")
	rootCmd.AddCommand(scaffoldCmd)
}
