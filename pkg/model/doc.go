// Package model defines the minimal problem/solution vocabulary shared by
// the constraint, insertion, solution, and evolution packages: jobs,
// vehicles, routes, and activities. Parsing problem definitions from a
// wire format and computing real transport costs are external concerns;
// this package only fixes the in-process shapes those collaborators must
// produce and consume.
package model
