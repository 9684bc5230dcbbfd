package cli

import (
	"fmt"
	"os"
	"reflect"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fjglira/casefixtures/internal/decoder"
	"github.com/fjglira/casefixtures/internal/domain"
	"github.com/fjglira/casefixtures/internal/scanner"
)

var anyType = reflect.TypeFor[any]()

var checkCmd = &cobra.Command{
	Use:   "check [directory...]",
	Short: "Check that every case file decodes",
	Long: `Decodes every case file in the given directories (or cases.directory
from the config) without type information and reports files that are not
well-formed two-field envelopes. A file defining neither envelope field
is reported too; one of the two may be left out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd, "")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		dirs := args
		if len(dirs) == 0 && cfg.Cases.Directory != "" {
			dirs = []string{cfg.Cases.Directory}
		}
		if len(dirs) == 0 {
			return fmt.Errorf("no directory given and cases.directory is not set")
		}

		dec := newDecoder(cfg)
		s := scanner.NewScanner()
		ok := color.New(color.FgGreen).SprintFunc()
		bad := color.New(color.FgRed, color.Bold).SprintFunc()
		out := cmd.OutOrStdout()

		failed, total := 0, 0
		for _, dir := range dirs {
			log.Debugf("Checking directory: %s", dir)
			files, err := s.Discover(dir, cfg.Cases.Patterns)
			if err != nil {
				failed++
				fmt.Fprintf(out, "%s %v\n", bad("FAIL"), err)
				continue
			}
			for _, f := range files {
				total++
				content, err := os.ReadFile(f)
				if err == nil {
					_, err = dec.Decode(content, []reflect.Type{anyType, anyType}, f)
				}
				if err == nil {
					err = checkFields(dec, content, f)
				}
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s %v\n", bad("FAIL"), err)
					continue
				}
				fmt.Fprintf(out, "%s   %s\n", ok("OK"), f)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d problem(s) in %d case file(s)", failed, total)
		}
		fmt.Fprintf(out, "%d case file(s) decoded\n", total)
		return nil
	},
}

// checkFields fails when the case file defines neither envelope field.
func checkFields(dec *decoder.Decoder, content []byte, path string) error {
	in, out, err := dec.Present(content, path)
	if err != nil || in || out {
		return err
	}
	input, output := dec.Fields()
	return domain.NewErrorWithSuggestion(domain.PhaseDecode, path,
		fmt.Sprintf("case file defines neither %q nor %q", input, output),
		"check the field names against envelope.input_field and envelope.output_field",
		nil)
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
