// Package table describes report tables declaratively and renders them.
//
// # Model
//
// A [Model] is a flat sequence of [Deet] values. Cells are added left to
// right; a [RowBreak] starts a new row. Row boundaries are therefore decided
// by the data, not by the renderer:
//
//	m := table.NewBuilder().
//	    Row(table.LabelValue{Name: "Author", Message: "sindresorhus"},
//	        table.LabelValue{Name: "Description", Message: "Pad a string"}).
//	    Row(table.LabelValue{Name: "Keywords", Message: "pad, string", Colspan: 2}).
//	    Build()
//
// [Builder.Build] drops trailing row breaks, so a built model never ends in
// an empty row.
//
// # Placeholders
//
// A [Placeholder] cell is filled in at render time. The only key understood
// by the renderers is [UsedInPackages], which expands to the manifests that
// reference the dependency. Unknown keys render as an empty cell.
//
// # Renderers
//
// [HTML] produces the markup posted to code review comments; [Terminal]
// draws the same grid with box characters and renders the README as styled
// markdown. Renderers never modify their inputs, so rendering is
// idempotent.
package table
