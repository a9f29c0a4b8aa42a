// Package auth implements the authentication subsystem: bcrypt password
// hashing, credential verification, cookie-backed server-side sessions
// (alexedwards/scs over the application's SQLite database), the request
// middleware that resolves a session into an AuthContext, and the
// signup/register/logout HTTP handlers.
//
// Every request is evaluated independently. The middleware resolves the
// session cookie once, loads the user row, and stores an immutable
// AuthContext in the Gin context; handlers read it via CurrentAuth.
package auth
