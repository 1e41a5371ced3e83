// Package engine executes compiled query algebra against a triples
// source using a pull-based rowsource pipeline.
//
// ARCHITECTURE:
//
// Volcano-Style Iteration:
// Every operator implements Rowsource and produces rows on demand. The
// consumer pulls from the root; leaves pull candidate triples from the
// store. ReadRow returns (nil, nil) on clean end-of-stream and a non-nil
// error only for genuine failures (source errors, cancellation).
//
// Compilation Pipeline:
// Compile walks the algebra tree bottom-up, producing one rowsource per
// node, then stacks the solution modifiers in a fixed order:
//
//	pattern -> group sort -> group by -> aggregation -> having
//	        -> projection -> order/distinct sort -> slice
//
// The order is a contract: ORDER BY must observe post-projection
// variables but pre-slice rows.
//
// CRITICAL PATTERNS:
//
// Shared Variables Table:
// All operators read and write bindings through the variables table that
// patterns were built against. Basic graph patterns bind variables during
// backtracking; joins and filters bind row values temporarily around
// expression evaluation and undo exactly the bindings they made, so
// enclosing operators' bindings survive.
//
// Deterministic Execution:
// Matching is single-threaded per query; rowsources are not safe for
// concurrent use. Sort is stable over input offsets, so equal keys keep
// arrival order and repeated runs over the same dataset produce the same
// sequence.
package engine
