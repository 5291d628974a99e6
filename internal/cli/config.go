package cli

import (
	"context"
	"io"
	"maps"
	"net/url"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depreport/pkg/config"
	"github.com/matzehuels/depreport/pkg/integrations/yarn"
	"github.com/matzehuels/depreport/pkg/proxy"
	"github.com/matzehuels/depreport/pkg/registry"
)

// configCommand creates the config command, which shows the registry and
// proxy configuration a check would use.
func (c *CLI) configCommand() *cobra.Command {
	var settingsPath, dir string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved registries and proxies",
		Long: `Config loads the registry configuration the same way check does (the yarn
CLI, or the .yarnrc.yml given by --yarnrc) and prints every registry with
whether it has a token and which proxy requests to it would use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSettings(settingsPath, cmd.Flags())
			if err != nil {
				return err
			}
			return c.showConfig(cmd.Context(), cmd.OutOrStdout(), dir, s)
		},
	}

	f := cmd.Flags()
	f.StringVar(&settingsPath, "config", config.SettingsFile, "settings file")
	f.StringVarP(&dir, "dir", "C", ".", "repository directory")
	f.String("yarnrc", "", "read registries from this .yarnrc.yml instead of the yarn CLI")
	f.String("npm-auth-token", "", "token for the default registry")

	return cmd
}

func (c *CLI) showConfig(ctx context.Context, w io.Writer, dir string, s *config.Settings) error {
	cfg, err := c.configLoader(dir, s, yarn.NewClient(dir)).Load(ctx)
	if err != nil {
		return err
	}
	printConfig(w, cfg, s.NPMAuthToken)
	return nil
}

// printConfig writes the registries of cfg and the proxy chosen for each.
func printConfig(w io.Writer, cfg *config.Config, overrideToken string) {
	regs := registry.FromConfig(cfg)
	resolver := proxy.NewResolver(cfg)

	printTitle(w, "Registries")
	printRegistry(w, "default", regs.Resolve("", overrideToken), resolver)

	for _, scope := range slices.Sorted(maps.Keys(regs.Scoped)) {
		printRegistry(w, scope, regs.Scoped[scope], resolver)
	}
}

func printRegistry(w io.Writer, label string, reg registry.Registry, resolver *proxy.Resolver) {
	printKeyValue(w, label, reg.URL)

	auth := "none"
	if reg.AuthToken != "" {
		auth = "token"
	}
	printDetail(w, "auth:  %s", auth)

	u, err := url.Parse(reg.URL)
	if err != nil {
		printWarning(w, "invalid registry URL: %v", err)
		return
	}
	via := resolver.ForURL(u)
	if via == "" {
		via = "direct"
	}
	printDetail(w, "proxy: %s", via)
}
