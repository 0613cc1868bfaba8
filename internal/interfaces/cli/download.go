package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemDraw-AI/internal/app"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

// NewDownloadCmd creates the download command: generate, then save the
// diagram or structure file.
func NewDownloadCmd(appOpts []app.Option) *cobra.Command {
	var (
		dest  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "download <formula>",
		Short: "Generate a diagram and save it to disk",
		Long: `Download generates the formula and saves the result: the diagram image in
diagram_url mode, or chemical_structure.sdf in molecular_data mode.`,
		Example: "  chemdraw download C6H6 --dest ./out",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, appOpts, formulaArg(args), dest, force)
		},
	}

	cmd.Flags().StringVar(&dest, "dest", ".", "directory to save the file in")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func runDownload(cmd *cobra.Command, appOpts []app.Option, formula, dest string, force bool) error {
	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() {
		return errors.InvalidParam(fmt.Sprintf("destination %q is not a directory", dest))
	}

	b, cliCtx, err := newBackend(cmd, appOpts)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	view, f, err := b.Download(ctx, formula)
	if err != nil {
		return err
	}
	if f == nil {
		if err := PrintResult(cmd, sessionReport(view)); err != nil {
			return err
		}
		return phaseError(view)
	}

	f.Path = filepath.Join(dest, filepath.Base(f.Name))
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	out, err := os.OpenFile(f.Path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.InvalidParam(fmt.Sprintf("%s already exists; use --force to overwrite", f.Path))
		}
		return err
	}
	if _, err := out.Write(f.data); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	cliCtx.Logger.Debug("diagram saved", logging.String("path", f.Path), logging.Int("bytes", f.Size))
	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd, f)
	}
	PrintSuccess(cmd, fmt.Sprintf("saved %s (%d bytes)", f.Path, f.Size))
	if f.ArchiveURL != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Archived: %s\n", f.ArchiveURL)
	}
	return nil
}

//Personal.AI order the ending
