// Package pkg provides the libraries behind depreport.
//
// # Overview
//
// depreport reviews package.json changes. For every manifest it diffs the
// base and head revisions, runs a few sanity checks on the change and looks
// up each newly added dependency in the npm registry that serves it. The
// result is a report of messages, warnings, failures and one metadata table
// per dependency.
//
// # Architecture
//
// The data flow of a run:
//
//	git base..head
//	     ↓
//	[diff] package (manifest diffs, modified files)
//	     ↓
//	[pipeline] package (checks, dedup cache, concurrent fetches)
//	     ↓                         ↓
//	[metadata] package        [yarn] provenance
//	 ([registry], [proxy], [npm], [cache])
//	     ↓
//	[table] package (HTML or terminal tables)
//	     ↓
//	[report] package (markdown, terminal, archive)
//
// Registry and proxy settings come from [config], which reads them from the
// yarn CLI or a .yarnrc.yml file. Errors carry codes from [errors], and
// [observability] exposes hooks and Prometheus metrics.
//
// [diff]: github.com/matzehuels/depreport/pkg/diff
// [pipeline]: github.com/matzehuels/depreport/pkg/pipeline
// [metadata]: github.com/matzehuels/depreport/pkg/metadata
// [yarn]: github.com/matzehuels/depreport/pkg/integrations/yarn
// [registry]: github.com/matzehuels/depreport/pkg/registry
// [proxy]: github.com/matzehuels/depreport/pkg/proxy
// [npm]: github.com/matzehuels/depreport/pkg/integrations/npm
// [cache]: github.com/matzehuels/depreport/pkg/cache
// [table]: github.com/matzehuels/depreport/pkg/table
// [report]: github.com/matzehuels/depreport/pkg/report
// [config]: github.com/matzehuels/depreport/pkg/config
// [errors]: github.com/matzehuels/depreport/pkg/errors
// [observability]: github.com/matzehuels/depreport/pkg/observability
package pkg
