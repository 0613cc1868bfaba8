package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemDraw-AI/internal/app"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// NewGenerateCmd creates the generate command.  It runs the full controller
// flow: generation first, correction suggestions when that fails.
func NewGenerateCmd(appOpts []app.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <formula>",
		Short: "Generate a structure diagram for a chemical formula",
		Long: `Generate asks the model for a diagram of the given formula or name.
When the formula cannot be interpreted, corrected formulas are suggested.`,
		Example: "  chemdraw generate H2O\n  chemdraw generate sodium chloride -o json",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, appOpts, formulaArg(args))
		},
	}
}

func runGenerate(cmd *cobra.Command, appOpts []app.Option, formula string) error {
	b, cliCtx, err := newBackend(cmd, appOpts)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	view, err := b.Generate(ctx, formula)
	if err != nil {
		return err
	}
	if err := PrintResult(cmd, sessionReport(view)); err != nil {
		return err
	}
	return phaseError(view)
}

// formulaArg joins the positional args so names with spaces need no quoting.
func formulaArg(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// phaseError turns a non-success terminal phase into the command's error.
func phaseError(v chem.SessionView) error {
	if v.Phase == chem.PhaseSuccess {
		return nil
	}
	msg := v.Error
	if msg == "" {
		msg = "generation ended in phase " + string(v.Phase)
	}
	return errors.GenerationError(msg)
}

// sessionReport renders a session view for the terminal.
type sessionReport chem.SessionView

func (r sessionReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Formula:  %s\n", r.Formula)
	fmt.Fprintf(&sb, "Phase:    %s\n", r.Phase)
	if d := r.describe(); d != "" {
		fmt.Fprintf(&sb, "Result:   %s\n", d)
	}
	if r.Error != "" {
		fmt.Fprintf(&sb, "Error:    %s\n", r.Error)
	}
	if len(r.Suggestions) > 0 {
		sb.WriteString("Did you mean:\n")
		for i, s := range r.Suggestions {
			fmt.Fprintf(&sb, "  [%d] %s\n", i, s)
		}
	}
	return sb.String()
}

func (r sessionReport) describe() string {
	switch r.Display.Kind {
	case chem.DisplayImage:
		if r.Display.Rejected {
			return r.Display.ImageSrc + " (placeholder; " + r.Result.DiagramURL + " is not an allowed host)"
		}
		return r.Display.ImageSrc
	case chem.DisplayViewer:
		if s := r.Display.Scene; s != nil {
			return fmt.Sprintf("3D structure (%s, %d atoms, %d bonds)", s.Format, len(s.Atoms), len(s.Bonds))
		}
		return "3D structure"
	}
	return ""
}

func (r sessionReport) TableHeaders() []string {
	return []string{"FORMULA", "PHASE", "RESULT", "SUGGESTIONS"}
}

func (r sessionReport) TableRows() [][]string {
	return [][]string{{r.Formula, string(r.Phase), r.describe(), strings.Join(r.Suggestions, ", ")}}
}

// correctionReport renders correction suggestions.
type correctionReport chem.CorrectionResult

func (r correctionReport) String() string {
	if len(r.CorrectedFormulas) == 0 {
		return "No corrections suggested.\n"
	}
	var sb strings.Builder
	for i, f := range r.CorrectedFormulas {
		fmt.Fprintf(&sb, "[%d] %s\n", i, f)
	}
	if r.Interpretation != "" {
		fmt.Fprintf(&sb, "\n%s\n", r.Interpretation)
	}
	return sb.String()
}

func (r correctionReport) TableHeaders() []string { return []string{"#", "FORMULA"} }

func (r correctionReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.CorrectedFormulas))
	for i, f := range r.CorrectedFormulas {
		rows = append(rows, []string{strconv.Itoa(i), f})
	}
	return rows
}

//Personal.AI order the ending
