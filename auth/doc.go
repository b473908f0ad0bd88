// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session tokens and request identity helpers.

# Session Tokens

Voters are identified by an HS256-signed JWT. The subject claim is the
voter ID and is the only identity the vote ledger ever sees:

	token, err := auth.IssueToken("user-42", secret, 24*time.Hour)
	voterID, err := auth.ParseToken(token, secret)

ParseToken rejects tokens signed with any other algorithm, tokens from a
different issuer, tokens without an expiry, and tokens with an empty subject.
All failures wrap ErrInvalidToken.

# Bearer Header

	token, err := auth.BearerToken(r.Header.Get("Authorization"))

Returns ErrMissingToken when the header is absent or not a Bearer value.

# IP Hashing

For privacy-preserving request logs:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
