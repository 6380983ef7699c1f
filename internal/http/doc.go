// Package http provides HTTP handlers and middleware for the appointment
// desk API.
//
// The router exposes the following endpoints:
//   - POST /login: verifies credentials. Body: {"username","password"}.
//     Response: {"user_id","username"}.
//   - GET/POST /appointments, GET/PUT/DELETE /appointments/{id}: appointment
//     management exchanging the `appointmentDTO` payload defined in
//     appointment_handler.go. A proposal that breaks a scheduling rule is
//     answered with 409 Conflict and the full list of violations; it is
//     never persisted.
//   - GET /appointments/upcoming: the acting user's appointments starting
//     within the reminder buffer.
//   - GET/POST /customers, GET/PUT/DELETE /customers/{id}: customer
//     management exchanging the `customerDTO` payload defined in
//     customer_handler.go. Deleting a customer removes their appointments.
//   - GET /reports/type-month, GET /reports/contact-schedule/{contactID}:
//     reporting endpoints defined in report_handler.go.
//   - GET /healthz: database reachability check for load balancers.
//
// Every endpoint except /login and /healthz requires the X-Acting-User header naming the
// desk user performing the request; the resolved user is stamped into the
// audit columns on writes.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
