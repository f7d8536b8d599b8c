package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"librarian/internal/adapter/cache"
	"librarian/internal/domain"
	"librarian/internal/port"
	"librarian/internal/usecase"
)

var (
	askJSON bool
	askLoop bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query...]",
	Short: "Recommend a book and print its summary",
	Long: `Resolve a request to one catalog title and print its summary verbatim.
A request that names a title (exactly or approximately) is answered without
calling the model provider. Otherwise the catalog is searched semantically and
the model picks one of the retrieved titles.

With no arguments you are prompted for the request.

Examples:
  librarian ask Dune
  librarian ask "a story about war and loyalty" --json
  librarian ask --loop`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.Flags().BoolVar(&askLoop, "loop", false, "keep prompting until an empty request")
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var r port.Retriever = a.retriever()
	if askLoop {
		r = cache.NewCachedRetriever(r, cache.NewQueryCache(cache.DefaultSize, cache.DefaultTTL))
	}
	uc := a.resolveUseCase(r)

	out := cmd.OutOrStdout()
	prompt := newPrompter(cmd.InOrStdin(), out)
	query := strings.Join(args, " ")

	if !askLoop {
		if len(args) == 0 {
			if query, err = prompt.Ask(); err != nil {
				return err
			}
		}
		return answer(cmd.Context(), uc, query, out)
	}

	for {
		if query == "" {
			if query, err = prompt.Ask(); err != nil {
				return err
			}
			if query == "" {
				return nil
			}
		}
		if err := answer(cmd.Context(), uc, query, out); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), describeError(err))
		}
		fmt.Fprintln(out)
		query = ""
	}
}

// answer resolves one query and prints the outcome. Invalid input is reported
// and swallowed; every other error is returned.
func answer(ctx context.Context, uc *usecase.ResolveUseCase, query string, out io.Writer) error {
	res, err := uc.Resolve(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			fmt.Fprintln(out, describeError(err))
			return nil
		}
		return err
	}

	if askJSON {
		return renderResolutionJSON(out, res)
	}
	renderResolution(out, res)
	return nil
}
