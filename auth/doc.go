// Package auth is the identity core: session token issuance and
// verification, the Keycloak bridge for the authorization-code flow, and
// request resolution from bearer tokens to locally stored users.
//
// Session tokens:
//   - TokenService signs HMAC JWTs whose subject is the local user id, never
//     the provider's. Verification collapses every failure (signature,
//     issuer, expiry, malformed claims, unknown user) into ErrInvalidToken so
//     callers cannot probe which check rejected a credential.
//
// Identity provider:
//   - IdentityProvider abstracts the code exchange and userinfo lookup;
//     Keycloak is the production implementation. Exchange and UserInfo are
//     single-shot calls, never retried, because authorization codes are
//     single-use.
//
// Request resolution:
//   - RequestResolver turns an inbound bearer token into a *User. Auther is
//     the real resolver; TestUserResolver substitutes a fixed auto-provisioned
//     user when authentication is disabled for test environments. The choice
//     is made once at startup from configuration.
package auth
