package analyze

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chainscan/pkg/analyzer"
)

// NewAnalyzeCommand builds the offline one-shot analyzer: bytecode in,
// report out, no store or queue involved.
func NewAnalyzeCommand() *cobra.Command {
	var (
		bytecode      string
		bytecodeFile  string
		abiFile       string
		balance       string
		overridesPath string
	)

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze bytecode offline",
		Long:  `Run the bytecode analyzer against a hex string or file and print the risk report as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if bytecode == "" && bytecodeFile == "" {
				return fmt.Errorf("one of --bytecode or --bytecode-file is required")
			}
			if bytecodeFile != "" {
				data, err := os.ReadFile(bytecodeFile)
				if err != nil {
					return fmt.Errorf("read bytecode file: %w", err)
				}
				bytecode = string(data)
			}

			var abiJSON string
			if abiFile != "" {
				data, err := os.ReadFile(abiFile)
				if err != nil {
					return fmt.Errorf("read abi file: %w", err)
				}
				abiJSON = string(data)
			}

			catalog := analyzer.DefaultCatalog()
			if overridesPath != "" {
				if err := analyzer.LoadOverrides(overridesPath, catalog); err != nil {
					return err
				}
			}

			report, err := analyzer.New(catalog).Analyze(analyzer.Request{
				Bytecode: bytecode,
				ABI:      abiJSON,
				Balance:  balance,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	analyzeCmd.Flags().StringVarP(&bytecode, "bytecode", "b", "", "Hex bytecode to analyze")
	analyzeCmd.Flags().StringVarP(&bytecodeFile, "bytecode-file", "f", "", "File containing hex bytecode")
	analyzeCmd.Flags().StringVarP(&abiFile, "abi-file", "a", "", "Optional ABI JSON file")
	analyzeCmd.Flags().StringVar(&balance, "balance", "", "Optional balance snapshot in wei")
	analyzeCmd.Flags().StringVar(&overridesPath, "overrides", "", "Optional catalog severity overrides YAML")

	return analyzeCmd
}
