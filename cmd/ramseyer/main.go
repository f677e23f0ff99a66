package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coolbeans/ramseyer/pkg/amend"
	"github.com/coolbeans/ramseyer/pkg/redline"
	"github.com/coolbeans/ramseyer/pkg/structure"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "ramseyer",
		Short: "Legislative amendment interpreter",
		Long: `Ramseyer parses legislative amendment instructions, locates their
targets inside nested statute text, and applies them to produce
amended text with a redline comparison.

It understands the standard drafting idioms:
  - striking "X" and inserting "Y"
  - inserting "Y" after/before "X"
  - amended to read as follows
  - adding at the end / at the beginning
  - striking subdivisions, redesignating, designating`,
		Version: version,
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(redlineCmd())
	rootCmd.AddCommand(batchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse amendment instructions from context text",
		Long: `Parse amendment instructions from a file of bill context text.

Example:
  ramseyer parse --context section-3.txt
  ramseyer parse --context section-3.txt --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contextPath, _ := cmd.Flags().GetString("context")
			asJSON, _ := cmd.Flags().GetBool("json")

			if contextPath == "" {
				return fmt.Errorf("--context flag is required")
			}
			contextText, err := os.ReadFile(contextPath)
			if err != nil {
				return fmt.Errorf("failed to read context: %w", err)
			}

			outcome := amend.NewParser().Parse(string(contextText))

			if asJSON {
				return printJSON(outcome)
			}
			if !outcome.Success {
				fmt.Printf("No instructions parsed: %s\n", outcome.Diagnostic)
				return nil
			}
			fmt.Printf("Parsed %d instruction(s):\n", len(outcome.Instructions))
			for i, instruction := range outcome.Instructions {
				printInstruction(i+1, instruction)
			}
			return nil
		},
	}
	cmd.Flags().String("context", "", "File containing amendment context text")
	cmd.Flags().Bool("json", false, "Emit JSON instead of a summary")
	return cmd
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a subsection from statute text",
		Long: `Extract a structural element from statute text by its nested
marker notation.

Example:
  ramseyer extract --statute 42-usc-1396a.txt --subsection "(b)(1)(A)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			statutePath, _ := cmd.Flags().GetString("statute")
			notation, _ := cmd.Flags().GetString("subsection")
			asJSON, _ := cmd.Flags().GetBool("json")

			if statutePath == "" {
				return fmt.Errorf("--statute flag is required")
			}
			statuteText, err := os.ReadFile(statutePath)
			if err != nil {
				return fmt.Errorf("failed to read statute: %w", err)
			}

			extraction := structure.Locate(string(statuteText), notation)

			if asJSON {
				return printJSON(extraction)
			}
			if !extraction.Success {
				fmt.Fprintf(os.Stderr, "Warning: %s; using full text\n", extraction.Diagnostic)
			}
			fmt.Println(extraction.Text)
			return nil
		},
	}
	cmd.Flags().String("statute", "", "File containing statute text")
	cmd.Flags().String("subsection", "", "Nested marker notation, e.g. (b)(1)(A)")
	cmd.Flags().Bool("json", false, "Emit JSON instead of plain text")
	return cmd
}

func applyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply parsed amendments to statute text",
		Long: `Parse amendment instructions from context text and apply them to
statute text, printing the amended result.

Example:
  ramseyer apply --context section-3.txt --statute 42-usc-1396a.txt
  ramseyer apply --context section-3.txt --statute 42-usc-1396a.txt --subsection "(b)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contextPath, _ := cmd.Flags().GetString("context")
			statutePath, _ := cmd.Flags().GetString("statute")
			notation, _ := cmd.Flags().GetString("subsection")
			asJSON, _ := cmd.Flags().GetBool("json")

			if contextPath == "" || statutePath == "" {
				return fmt.Errorf("--context and --statute flags are required")
			}
			contextText, err := os.ReadFile(contextPath)
			if err != nil {
				return fmt.Errorf("failed to read context: %w", err)
			}
			statuteText, err := os.ReadFile(statutePath)
			if err != nil {
				return fmt.Errorf("failed to read statute: %w", err)
			}

			original, amended, applied := runPipeline(string(contextText), string(statuteText), notation)

			if asJSON {
				return printJSON(map[string]any{
					"original": original,
					"amended":  amended,
					"applied":  applied,
				})
			}
			if !applied {
				fmt.Fprintln(os.Stderr, "Warning: no instruction could be applied; text unchanged")
			}
			fmt.Println(amended)
			return nil
		},
	}
	cmd.Flags().String("context", "", "File containing amendment context text")
	cmd.Flags().String("statute", "", "File containing statute text")
	cmd.Flags().String("subsection", "", "Optional nested marker notation to scope the statute")
	cmd.Flags().Bool("json", false, "Emit JSON instead of plain text")
	return cmd
}

func redlineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redline",
		Short: "Render an HTML redline of amendments",
		Long: `Parse amendment instructions, apply them, and render an HTML
redline with deletions struck and insertions marked.

Example:
  ramseyer redline --context section-3.txt --statute 42-usc-1396a.txt --output redline.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contextPath, _ := cmd.Flags().GetString("context")
			statutePath, _ := cmd.Flags().GetString("statute")
			notation, _ := cmd.Flags().GetString("subsection")
			outputPath, _ := cmd.Flags().GetString("output")
			title, _ := cmd.Flags().GetString("title")

			if contextPath == "" || statutePath == "" {
				return fmt.Errorf("--context and --statute flags are required")
			}
			contextText, err := os.ReadFile(contextPath)
			if err != nil {
				return fmt.Errorf("failed to read context: %w", err)
			}
			statuteText, err := os.ReadFile(statutePath)
			if err != nil {
				return fmt.Errorf("failed to read statute: %w", err)
			}

			original, amended, _ := runPipeline(string(contextText), string(statuteText), notation)
			result := redline.Generate(original, amended)

			if outputPath != "" {
				page := redline.Wrap(result, title)
				if err := os.WriteFile(outputPath, []byte(page), 0644); err != nil {
					return fmt.Errorf("failed to write redline: %w", err)
				}
				fmt.Printf("Wrote redline to %s (%d deletion(s), %d insertion(s))\n",
					outputPath, result.Deletions, result.Insertions)
				return nil
			}
			fmt.Println(result.HTML)
			return nil
		},
	}
	cmd.Flags().String("context", "", "File containing amendment context text")
	cmd.Flags().String("statute", "", "File containing statute text")
	cmd.Flags().String("subsection", "", "Optional nested marker notation to scope the statute")
	cmd.Flags().String("output", "", "Write HTML to this file instead of stdout")
	cmd.Flags().String("title", "", "Citation shown in the redline header")
	return cmd
}

// batchJob is one entry in a batch YAML file.
type batchJob struct {
	Citation    string `yaml:"citation"`
	ContextFile string `yaml:"context_file"`
	StatuteFile string `yaml:"statute_file"`
	Subsection  string `yaml:"subsection"`
}

// batchResult is the per-job outcome reported by the batch command.
type batchResult struct {
	Citation     string `json:"citation"`
	Applied      bool   `json:"applied"`
	Instructions int    `json:"instructions"`
	Error        string `json:"error,omitempty"`
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Apply amendments for a YAML list of citations",
		Long: `Process a YAML job file of amendments. Each entry names a citation,
a context file, a statute file, and an optional subsection. A failed
entry is reported and the rest continue.

Job file format:
  - citation: "42 U.S.C. 1396a(b)"
    context_file: contexts/sec-3.txt
    statute_file: statutes/1396a.txt
    subsection: "(b)"

Example:
  ramseyer batch --jobs amendments.yaml --output-dir amended/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobsPath, _ := cmd.Flags().GetString("jobs")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			asJSON, _ := cmd.Flags().GetBool("json")

			if jobsPath == "" {
				return fmt.Errorf("--jobs flag is required")
			}
			jobsData, err := os.ReadFile(jobsPath)
			if err != nil {
				return fmt.Errorf("failed to read jobs file: %w", err)
			}
			var jobs []batchJob
			if err := yaml.Unmarshal(jobsData, &jobs); err != nil {
				return fmt.Errorf("failed to parse jobs file: %w", err)
			}
			if len(jobs) == 0 {
				return fmt.Errorf("jobs file contains no entries")
			}

			if outputDir != "" {
				if err := os.MkdirAll(outputDir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			results := make([]batchResult, 0, len(jobs))
			for _, job := range jobs {
				results = append(results, runBatchJob(job, outputDir))
			}

			if asJSON {
				return printJSON(results)
			}
			failed := 0
			for _, result := range results {
				status := "applied"
				if result.Error != "" {
					status = "error: " + result.Error
					failed++
				} else if !result.Applied {
					status = "no change"
				}
				fmt.Printf("  %-40s %s (%d instruction(s))\n", result.Citation, status, result.Instructions)
			}
			fmt.Printf("Processed %d job(s), %d failed\n", len(results), failed)
			return nil
		},
	}
	cmd.Flags().String("jobs", "", "YAML file listing amendment jobs")
	cmd.Flags().String("output-dir", "", "Directory to write amended text files into")
	cmd.Flags().Bool("json", false, "Emit JSON instead of a summary")
	return cmd
}

// runBatchJob executes one batch entry. Failures are captured on the
// result so one bad entry cannot abort the rest of the file.
func runBatchJob(job batchJob, outputDir string) batchResult {
	result := batchResult{Citation: job.Citation}

	contextText, err := os.ReadFile(job.ContextFile)
	if err != nil {
		result.Error = fmt.Sprintf("read context: %v", err)
		return result
	}
	statuteText, err := os.ReadFile(job.StatuteFile)
	if err != nil {
		result.Error = fmt.Sprintf("read statute: %v", err)
		return result
	}

	outcome := amend.NewParser().Parse(string(contextText))
	result.Instructions = len(outcome.Instructions)

	_, amended, applied := runPipeline(string(contextText), string(statuteText), job.Subsection)
	result.Applied = applied

	if outputDir != "" {
		path := filepath.Join(outputDir, sanitizeFilename(job.Citation)+".txt")
		if err := os.WriteFile(path, []byte(amended), 0644); err != nil {
			result.Error = fmt.Sprintf("write output: %v", err)
		}
	}
	return result
}

// runPipeline parses the context, scopes the statute to the requested
// subsection, and applies the first instruction that takes effect.
// First-applicable-wins keeps the CLI deterministic when the cascade
// yields several readings of one directive.
func runPipeline(contextText, statuteText, notation string) (original, amended string, applied bool) {
	extraction := structure.Locate(statuteText, notation)
	original = extraction.Text
	amended = original

	outcome := amend.NewParser().Parse(contextText)
	if !outcome.Success {
		return original, amended, false
	}

	applier := amend.NewApplier()
	for _, instruction := range outcome.Instructions {
		applyOutcome := applier.Apply(original, instruction)
		if applyOutcome.Applied {
			return original, applyOutcome.Text, true
		}
	}
	return original, amended, false
}

func printInstruction(index int, instruction amend.Instruction) {
	fmt.Printf("%d. %s (confidence %.2f)\n", index, instruction.Kind, instruction.Confidence)
	if instruction.Target != "" {
		fmt.Printf("   target: %s\n", instruction.Target)
	}
	if instruction.TextToStrike != "" {
		fmt.Printf("   strike: %q\n", instruction.TextToStrike)
	}
	if len(instruction.StrikeElements) > 0 {
		fmt.Printf("   strike elements: %s\n", strings.Join(instruction.StrikeElements, ", "))
	}
	if instruction.TextToInsert != "" {
		fmt.Printf("   insert: %q\n", instruction.TextToInsert)
	}
	if instruction.PositionMarker != "" {
		fmt.Printf("   position: %q\n", instruction.PositionMarker)
	}
	if instruction.EachPlace {
		fmt.Printf("   each place it appears\n")
	}
}

func printJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

// sanitizeFilename makes a citation safe to use as a file name.
func sanitizeFilename(citation string) string {
	replacer := strings.NewReplacer(
		" ", "-",
		"/", "-",
		"\\", "-",
		".", "",
		"(", "",
		")", "",
		"§", "sec",
	)
	name := replacer.Replace(strings.TrimSpace(citation))
	if name == "" {
		name = "amendment"
	}
	return name
}
