// Package crm is a small business-record service (accounts, contacts, sales
// opportunities, intent signals) whose core is the request authentication and
// session-verification subsystem.
//
// Authentication:
//   - Login verifies a credential record through the bcrypt hasher and mints a
//     signed, self-contained session token (JWT, HS256) carrying the principal
//     identifier and email with a fixed validity window.
//   - Every protected route delegates to the jwtware middleware, which runs an
//     ordered list of credential extractors (bearer Authorization header
//     first, `token` cookie second) and validates the candidate token fresh on
//     each request. There is no server-side session store.
//   - A cheap redirect gate inspects cookie presence (not validity) to steer
//     browser navigation between the login page and the protected pages. It is
//     a UX convenience only; data endpoints always pass the middleware.
//
// Record management (repositories and controllers for accounts, contacts,
// opportunities, and intent signals) sits entirely downstream of a successful
// auth decision and consumes it as an opaque gate.
package crm
