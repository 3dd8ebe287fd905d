// Package access covers who may see what: the closed role set, the static
// role-to-view mapping the frontend renders from, user administration and
// the HTTP middleware enforcing role checks.
//
// Authorization is capability based. Handlers ask for a Permission, never
// for a concrete role, so adding a role means extending one lookup table.
package access
