package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemDraw-AI/internal/app"
)

// NewSuggestCmd creates the suggest command, which asks for corrected
// formulas without attempting a diagram.
func NewSuggestCmd(appOpts []app.Option) *cobra.Command {
	return &cobra.Command{
		Use:     "suggest <formula>",
		Short:   "Suggest corrected chemical formulas",
		Example: "  chemdraw suggest H2O2X",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, cliCtx, err := newBackend(cmd, appOpts)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			res, err := b.Suggest(ctx, formulaArg(args))
			if err != nil {
				return err
			}
			return PrintResult(cmd, correctionReport(*res))
		},
	}
}

//Personal.AI order the ending
