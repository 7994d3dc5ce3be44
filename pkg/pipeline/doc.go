// Package pipeline compiles declarative queries into linq sequences over provider documents.
//
// A query names a source collection, a chain of stages and an optional terminal aggregate:
//
//	from: users
//	pipeline:
//	  - '@where': doc.age >= 30
//	  - '@join': {from: orders, outerKey: $.id, innerKey: $.user, as: order}
//	  - '@groupBy': {keys: [dept], key: [$.dept]}
//	  - '@select': {dept: $.key.dept, n: '@count'}
//	  - '@orderByDescending': $.n
//	aggregate: {'@count': {}}
//
// Predicates are CEL expressions over the variable "doc". Keys and projections are JSONPath
// expressions rooted at the document ("$.a.b"); other strings are literals.
package pipeline
