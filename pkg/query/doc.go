// Package query plans catalog queries and compiles them for relational stores.
//
// A Planner combines the mandatory filter (catalog browsing never returns
// inactive products), the user's filter, the requested ordering plus an
// identifier tie-break, and the page window into a Plan. Stores consume a Plan
// directly: SQL stores call BuildSQL to get parameterized statements, in-memory
// stores evaluate Plan.Where with filter.Eval and sort with CompareRecords.
//
// Literals from the filter are always bound as parameters, never spliced into
// SQL text.
package query
