// Package metadata turns registry documents into report tables.
//
// [Fetcher] picks the registry for a dependency (see the registry package),
// downloads its packument and hands it to [Build], which lays out the
// dependency's details as a [table.Model]:
//
//	name (linked to its homepage)  | Used in: 'package.json', ...
//	Author                         | Description
//	License                        | Homepage
//	Keywords (full width, if any)
//	Updated                        | Created
//	Releases                       | Maintainers
//	Direct Dependencies (full width, if any)
//
// Cell values are HTML fragments. Package names are printed through
// [PrintDep] so scoped names do not become user mentions in review
// comments.
//
// [table.Model]: github.com/matzehuels/depreport/pkg/table.Model
package metadata
