// Package jsonpath provides a JSONPath engine over the document value
// model, with aggregate functions callable at the top of an expression.
//
// Supported selectors:
//   - Child `.` and descendant `..` segments
//   - Name, array index (negative counts from the end), wildcard `*`,
//     slices `start:end:step`, unions `[a,b]`
//   - Scalar filters `[?(@.path <op> <literal>)]` where:
//     <op>      →  ==  !=  <  <=  >  >=  =~  !~
//     <literal> →  number  |  'string'  |  /regex/flags  (flags: i,m)
//     and existence checks like `[?(@.isbn)]`
//
// An expression may also be a call of a registered aggregate function,
// for example `max($.store.book[*].price)` or
// `tokenize($.greeting, $.separator)`. Each argument is itself a path
// whose node-set is handed to the function.
package jsonpath
