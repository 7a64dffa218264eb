// Package common_tools provides the tools offered to the chat agent.
//
// Available tools:
//   - multiply, add, subtract: integer arithmetic
//   - divide, modulus: fail with ErrDivisionByZero when b is 0
//   - wiki_search: Wikipedia lookup, up to 2 pages
//   - web_search: Tavily lookup, up to 3 results (needs TAVILY_API_KEY)
//   - arxiv_search: arXiv lookup, up to 3 abstracts
//
// Lookup tools never fail: problems are reported as an "ERROR: ..." string
// inside the result map so the model can read them.
package common_tools
