package metadata

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depreport/pkg/errors"
	"github.com/matzehuels/depreport/pkg/integrations"
	"github.com/matzehuels/depreport/pkg/integrations/npm"
	"github.com/matzehuels/depreport/pkg/registry"
	"github.com/matzehuels/depreport/pkg/table"
)

// PackumentClient fetches registry documents. [npm.Client] implements it.
type PackumentClient interface {
	FetchPackument(ctx context.Context, name string, reg registry.Registry, refresh bool) (*npm.Packument, error)
}

// Options configures a [Fetcher].
type Options struct {
	// Registries maps dependency names to registries.
	Registries registry.Registries

	// NPMAuthToken overrides the token of the default registry.
	NPMAuthToken string

	// Refresh bypasses the packument cache.
	Refresh bool

	// Now returns the reference time for ages. Defaults to time.Now.
	Now func() time.Time

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger
}

// Fetcher builds the report table of a dependency from its registry.
type Fetcher struct {
	client PackumentClient
	opts   Options
}

// NewFetcher creates a Fetcher.
func NewFetcher(client PackumentClient, opts Options) *Fetcher {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Fetcher{client: client, opts: opts}
}

// Fetch resolves the registry for name, downloads its packument and builds
// the table. A package the registry does not know is a PACKAGE_NOT_FOUND
// error, any other failure a NETWORK_ERROR; neither is fatal to a run.
func (f *Fetcher) Fetch(ctx context.Context, name string) (table.Model, error) {
	if err := errors.ValidateNpmPackageName(name); err != nil {
		return table.Model{}, err
	}

	reg := f.opts.Registries.Resolve(name, f.opts.NPMAuthToken)
	f.opts.Logger.Debug("fetching packument", "package", name, "registry", reg.URL, "auth", reg.AuthToken != "")

	pkt, err := f.client.FetchPackument(ctx, name, reg, f.opts.Refresh)
	if err != nil {
		if stderrors.Is(err, integrations.ErrNotFound) {
			return table.Model{}, errors.Wrap(errors.ErrCodePackageNotFound, err, "%s not found on %s", name, reg.URL)
		}
		return table.Model{}, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s from %s", name, reg.URL)
	}
	return Build(name, pkt, f.opts.Now()), nil
}
