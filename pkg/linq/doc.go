// Package linq implements deferred-execution queries over in-memory sequences.
//
// A Sequence wraps an arbitrary source of elements (a slice, an iterator, a channel or any
// Enumerable) and exposes a fluent set of composable operators. Operators never compute their
// result when called: each returns a new Sequence holding a pending transformation of its
// upstream, and elements are pulled through the chain only when a terminal operator (ToList,
// Count, First, Sum, ...) forces evaluation.
//
// Key components:
//   - Sequence: the queryable wrapper with re-iteration semantics.
//   - Lazy operators: Select, Where, Skip, Take, SelectMany, Concat, Add, Reverse,
//     DefaultIfEmpty.
//   - Grouping and set operators: GroupBy, Distinct, Join, GroupJoin, Union, Intersect, Except.
//   - Ordering: OrderBy, OrderByDescending (stable).
//   - Terminal operators: Count, Sum, Min, Max, Avg, Median, First, Last, Single, ElementAt,
//     Any, Contains, ToList.
//
// Re-iteration: a Sequence captures the elements it yields during a traversal. Once a
// traversal runs to completion the capture replaces the upstream, so every later traversal of
// the same Sequence yields the identical ordered elements. Sources that can be consumed only
// once (iterators, channels) are additionally wrapped in a replay buffer that pulls each
// element from the source exactly once.
//
// Errors: operators that receive invalid arguments return a Sequence carrying a sticky error;
// terminal operators report it together with any failure found during evaluation. Error kinds
// are matched with errors.Is against ErrNoElements, ErrNullArgument, ErrType,
// ErrInvalidArgument, ErrNoMatchingElement and ErrMoreThanOneMatchingElement.
//
// Example usage:
//
//	adults, err := linq.Of(people...).
//		Where(func(p Person) bool { return p.Age >= 18 }).
//		OrderBy(func(p Person) any { return p.Name }).
//		ToList()
//
// A Sequence is not safe for concurrent use.
package linq
