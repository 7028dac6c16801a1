// Package output provides driven.RecordWriter implementations that render
// harvest records to files in an output directory:
//
//   - emails.txt: one address per line, unique case-insensitively
//   - emails.csv: username,email,source,repo,commit_sha,collected_at
//   - emails.json: the full records as an indented JSON array
//   - by_category/<category>.txt: addresses grouped by account location
//
// Files are replaced atomically on every run.
package output
