package utils

// IdentityContextKey is where the Identity middleware stores the signed-in
// user on the gin context.
const IdentityContextKey = "identity"

// SessionHeader carries the registration session id for clients that
// cannot keep it in the path.
const SessionHeader = "X-Registration-Session"
