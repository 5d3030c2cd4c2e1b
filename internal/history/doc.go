// Package history persists a local ledger of question/answer exchanges so
// the CLI can list past conversations and submit feedback after the fact.
// The remote conversation remains the source of truth; this is a record of
// what was asked, not a cache of answers.
package history
