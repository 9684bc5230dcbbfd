package cli

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/casefixtures/internal/config"
)

var (
	testdata   = filepath.Join("..", "..", "testdata")
	fullConfig = filepath.Join(testdata, "configs", "full.yaml")
	minimal    = filepath.Join(testdata, "configs", "minimal.yaml")
)

// execute runs the root command with fresh flag state and captures stdout.
func execute(args ...string) (string, error) {
	listRoot, listPackage, listFunction, listDir = "", "", "", ""
	scaffoldRoot, scaffoldPackage, scaffoldName = "", "", ""
	scaffoldStyle, scaffoldFormat, scaffoldInput, scaffoldOutput = "testing", "json", "any", "any"
	scaffoldDryRun, verbose, envFile = false, false, ""
	cfgFile = config.FileName
	rootCmd.PersistentFlags().Lookup("config").Changed = false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

var _ = Describe("CLI", func() {
	BeforeEach(func() {
		color.NoColor = true
	})

	Describe("validate", func() {
		It("should accept a valid config file", func() {
			out, err := execute("validate", "--config", fullConfig)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("is valid"))
		})

		It("should fall back to defaults without a config file", func() {
			out, err := execute("validate")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("defaults are valid"))
		})

		It("should fail for a missing explicit config file", func() {
			_, err := execute("validate", "--config", "nonexistent.yaml")
			Expect(err).To(HaveOccurred())
		})

		It("should apply overrides from an env file", func() {
			envPath := filepath.Join(GinkgoT().TempDir(), ".env")
			Expect(os.WriteFile(envPath, []byte("CASEFIXTURES_LOG_LEVEL=loud\n"), 0644)).To(Succeed())
			DeferCleanup(os.Unsetenv, "CASEFIXTURES_LOG_LEVEL")

			_, err := execute("validate", "--config", minimal, "--env-file", envPath)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logging.level"))
		})
	})

	Describe("list", func() {
		It("should list the files of an explicit directory", func() {
			dir := filepath.Join(testdata, "cases", "valid")
			out, err := execute("list", "--config", minimal, "--dir", dir)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("directory: " + dir))
			Expect(out).To(ContainSubstring("a_small.json"))
			Expect(out).To(ContainSubstring("b_large.json"))
			Expect(out).ToNot(ContainSubstring("notes.txt"))
		})

		It("should resolve the directory from package and function", func() {
			out, err := execute("list", "--config", minimal,
				"--module-root", filepath.Join("..", ".."),
				"--package", "testdata/pkg/cases",
				"--func", "Celsius_WhenBelowZero")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring(filepath.Join("testdata", "pkg", "cases", "Celsius")))
			Expect(out).To(ContainSubstring("boiling.json"))
		})

		It("should require a directory or a function", func() {
			_, err := execute("list", "--config", minimal)
			Expect(err).To(HaveOccurred())
		})

		It("should fail for an empty directory", func() {
			_, err := execute("list", "--config", minimal, "--dir", filepath.Join(testdata, "cases", "empty"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("does not contain any"))
		})
	})

	Describe("check", func() {
		It("should report every decoded file", func() {
			out, err := execute("check", "--config", minimal, filepath.Join(testdata, "cases", "valid"))
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("OK"))
			Expect(out).To(ContainSubstring("2 case file(s) decoded"))
		})

		It("should fail and name malformed files", func() {
			out, err := execute("check", "--config", minimal,
				filepath.Join(testdata, "cases", "valid"),
				filepath.Join(testdata, "cases", "mixed"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("1 problem(s) in 5 case file(s)"))
			Expect(out).To(ContainSubstring("FAIL"))
			Expect(out).To(ContainSubstring("b_broken.json"))
		})

		It("should fail for files defining neither envelope field", func() {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"request": 1}`), 0644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{"foo": 1}`), 0644)).To(Succeed())

			out, err := execute("check", "--config", minimal, dir)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("1 problem(s) in 2 case file(s)"))
			Expect(out).To(ContainSubstring("OK   " + filepath.Join(dir, "a.json")))
			Expect(out).To(ContainSubstring(`neither "request" nor "response"`))
		})

		It("should need a directory", func() {
			_, err := execute("check", "--config", minimal)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("scaffold", func() {
		var root string

		BeforeEach(func() {
			root = GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/calc\n"), 0644)).To(Succeed())
		})

		It("should write the case and test files", func() {
			out, err := execute("scaffold", "--config", minimal, "--module-root", root,
				"--package", "ops", "--name", "Add_WhenBothPositive",
				"--input", "[2]float64", "--output", "float64")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring(filepath.Join("ops", "TestAdd", "example.json")))
			Expect(filepath.Join(root, "ops", "TestAdd", "example.json")).To(BeARegularFile())
			Expect(filepath.Join(root, "ops", "add_cases_test.go")).To(BeARegularFile())
		})

		It("should honor the base directory of the module's config file", func() {
			Expect(os.WriteFile(filepath.Join(root, config.FileName), []byte("cases:\n  base_dir: cases\n"), 0644)).To(Succeed())

			_, err := execute("scaffold", "--module-root", root,
				"--package", "ops", "--name", "Add_WhenBothPositive")
			Expect(err).ToNot(HaveOccurred())
			Expect(filepath.Join(root, "cases", "ops", "TestAdd", "example.json")).To(BeARegularFile())
			Expect(filepath.Join(root, "ops", "TestAdd")).ToNot(BeADirectory())

			out, err := execute("list", "--module-root", root, "--package", "ops", "--func", "TestAdd_WhenBothPositive")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("directory: " + filepath.Join(root, "cases", "ops", "TestAdd")))
			Expect(out).To(ContainSubstring("example.json"))
		})

		It("should not write in dry-run mode", func() {
			_, err := execute("scaffold", "--config", minimal, "--module-root", root,
				"--package", "ops", "--name", "Add", "--style", "ginkgo", "--dry-run")
			Expect(err).ToNot(HaveOccurred())
			Expect(filepath.Join(root, "ops")).ToNot(BeADirectory())
		})
	})
})
