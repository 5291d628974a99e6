// Package yarn wraps the yarn CLI.
//
// Two commands are used: `yarn config list --json`, whose output feeds
// [config.YarnLoader], and `yarn why <dep> --json`, which explains why a
// dependency is installed. Both produce a stream of JSON lines:
//
//	{"type":"step","data":"Why do I have the module \"left-pad\"...?"}
//	{"type":"activityEnd","data":{"id":0}}
//	{"type":"info","data":"\"left-pad@1.3.0\" is a direct dependency."}
//
// yarn is optional. When it is missing, the configuration falls back to
// defaults and provenance is reported as unavailable for every dependency.
//
// [config.YarnLoader]: github.com/matzehuels/depreport/pkg/config.YarnLoader
package yarn
