// Package report collects and writes the output of a report run.
//
// A run posts to a [Sink], the four channels a code review surface offers:
// messages, warnings, failures and markdown bodies. [Collector] keeps them
// in memory; [WriteMarkdown] and [WriteTerminal] write a collected
// [Report] as a review comment or for a terminal.
//
// Finished runs can be kept in an [Archive], either as JSON files
// ([FileArchive]) or in MongoDB ([MongoArchive]).
package report
