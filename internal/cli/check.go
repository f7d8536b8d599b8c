package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify provider credentials",
	Long: `Print the masked API key found in the environment or env file and send
one short completion request to confirm the provider accepts it.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.client.Settings()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "API key (%s): %s\n", s.APIKeyEnv, orUnset(s.MaskedKey()))
	fmt.Fprintf(out, "Project:         %s\n", orUnset(s.ProjectID))
	fmt.Fprintf(out, "Organization:    %s\n", orUnset(s.OrgID))
	fmt.Fprintf(out, "Embedding model: %s\n", s.EmbeddingModel)
	fmt.Fprintf(out, "Chat model:      %s\n", s.GenerativeModel)

	reply, err := newLLM(a.client).Generate(cmd.Context(), "Reply with the single word: ok")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nProvider replied: %s\n", strings.TrimSpace(reply))
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
