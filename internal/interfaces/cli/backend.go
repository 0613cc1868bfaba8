package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemDraw-AI/internal/app"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/client"
	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// savedFile is a download result, whichever backend produced it.
type savedFile struct {
	Name        string `json:"name"`
	Path        string `json:"path,omitempty"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
	ArchiveURL  string `json:"archiveUrl,omitempty"`
	data        []byte
}

// backend runs one formula through a fresh session.
type backend interface {
	Generate(ctx context.Context, formula string) (chem.SessionView, error)
	Suggest(ctx context.Context, formula string) (*chem.CorrectionResult, error)
	// Download generates formula and fetches the result.  A generation that
	// does not succeed is returned as the view with a nil file.
	Download(ctx context.Context, formula string) (chem.SessionView, *savedFile, error)
	Close() error
}

func newBackend(cmd *cobra.Command, appOpts []app.Option) (backend, *CLIContext, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, nil, err
	}
	if cliCtx.Client != nil {
		return &remoteBackend{client: cliCtx.Client, logger: cliCtx.Logger}, cliCtx, nil
	}
	opts := append([]app.Option{app.WithVersion(Version)}, appOpts...)
	a, err := app.New(cmd.Context(), cliCtx.Config, cliCtx.Logger, opts...)
	if err != nil {
		return nil, nil, err
	}
	return &localBackend{app: a}, cliCtx, nil
}

type localBackend struct {
	app *app.App
}

func (b *localBackend) Generate(ctx context.Context, formula string) (chem.SessionView, error) {
	c := b.app.Sessions.Create()
	defer b.app.Sessions.Delete(c.ID())
	c.SetFormula(formula)
	return c.Generate(ctx)
}

func (b *localBackend) Suggest(ctx context.Context, formula string) (*chem.CorrectionResult, error) {
	return b.app.Correction.SuggestCorrections(ctx, formula)
}

func (b *localBackend) Download(ctx context.Context, formula string) (chem.SessionView, *savedFile, error) {
	c := b.app.Sessions.Create()
	defer b.app.Sessions.Delete(c.ID())
	c.SetFormula(formula)
	view, err := c.Generate(ctx)
	if err != nil || view.Phase != chem.PhaseSuccess {
		return view, nil, err
	}
	f, err := c.Download(ctx)
	if err != nil {
		return view, nil, err
	}
	out := &savedFile{Name: f.Name, ContentType: f.ContentType, Size: len(f.Data), data: f.Data}
	if f.Archive != nil {
		out.ArchiveURL = f.Archive.URL
	}
	return view, out, nil
}

func (b *localBackend) Close() error { return b.app.Close() }

type remoteBackend struct {
	client *client.Client
	logger logging.Logger
}

// session creates a server session holding formula and returns its id with
// a cleanup func.
func (b *remoteBackend) session(ctx context.Context, formula string) (string, func(), error) {
	s := b.client.Sessions()
	v, err := s.Create(ctx)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if err := s.Delete(context.WithoutCancel(ctx), v.ID); err != nil {
			b.logger.Debug("session cleanup failed", logging.String("session", v.ID), logging.Err(err))
		}
	}
	if _, err := s.SetFormula(ctx, v.ID, formula); err != nil {
		cleanup()
		return "", nil, err
	}
	return v.ID, cleanup, nil
}

func (b *remoteBackend) Generate(ctx context.Context, formula string) (chem.SessionView, error) {
	id, cleanup, err := b.session(ctx, formula)
	if err != nil {
		return chem.SessionView{}, err
	}
	defer cleanup()
	v, err := b.client.Sessions().Generate(ctx, id)
	if err != nil {
		return chem.SessionView{}, err
	}
	return *v, nil
}

func (b *remoteBackend) Suggest(ctx context.Context, formula string) (*chem.CorrectionResult, error) {
	return b.client.SuggestCorrections(ctx, formula)
}

func (b *remoteBackend) Download(ctx context.Context, formula string) (chem.SessionView, *savedFile, error) {
	id, cleanup, err := b.session(ctx, formula)
	if err != nil {
		return chem.SessionView{}, nil, err
	}
	defer cleanup()
	v, err := b.client.Sessions().Generate(ctx, id)
	if err != nil {
		return chem.SessionView{}, nil, err
	}
	if v.Phase != chem.PhaseSuccess {
		return *v, nil, nil
	}
	f, err := b.client.Sessions().Download(ctx, id)
	if err != nil {
		return *v, nil, err
	}
	return *v, &savedFile{
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        len(f.Data),
		ArchiveURL:  f.ArchiveURL,
		data:        f.Data,
	}, nil
}

func (b *remoteBackend) Close() error { return nil }

//Personal.AI order the ending
